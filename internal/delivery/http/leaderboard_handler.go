package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// LeaderboardHandler serves the global ranking.
type LeaderboardHandler struct {
	leaderboard upstream.Leaderboard
	logger      *zap.Logger
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboard upstream.Leaderboard, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard, logger: logger}
}

// Global handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) Global(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ranking, err := h.leaderboard.Global(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Leaderboard fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Leaderboard service unavailable"})
		return
	}
	if ranking == nil {
		ranking = []domain.RankingItem{}
	}
	c.JSON(http.StatusOK, ranking)
}
