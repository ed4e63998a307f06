package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/delivery/http/middleware"
	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// HintHandler proxies the AI hint service.
type HintHandler struct {
	hints  upstream.Hint
	logger *zap.Logger
}

// NewHintHandler creates a new HintHandler.
func NewHintHandler(hints upstream.Hint, logger *zap.Logger) *HintHandler {
	return &HintHandler{hints: hints, logger: logger}
}

// Fetch handles POST /api/v1/ai/hint
func (h *HintHandler) Fetch(c *gin.Context) {
	s := middleware.SessionFrom(c)

	var in domain.HintRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	hint, err := h.hints.Fetch(c.Request.Context(), in, s.Credentials())
	if err != nil {
		h.logger.Error("AI hint failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Hint service unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hint": hint})
}
