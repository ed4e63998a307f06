package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Ensure LeaderboardClient implements upstream.Leaderboard.
var _ upstream.Leaderboard = (*LeaderboardClient)(nil)

// LeaderboardClient reads the global ranking from the leaderboard service.
type LeaderboardClient struct {
	c *client
}

// NewLeaderboardClient creates a new LeaderboardClient.
func NewLeaderboardClient(baseURL string, httpc *http.Client, logger *zap.Logger) *LeaderboardClient {
	return &LeaderboardClient{c: newClient("leaderboard", baseURL, httpc, logger)}
}

func (lc *LeaderboardClient) Global(ctx context.Context, limit int) ([]domain.RankingItem, error) {
	if limit <= 0 {
		limit = 20
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var ranking []domain.RankingItem
	req := call{method: http.MethodGet, path: "/leaderboard/global", query: query}
	if _, err := lc.c.doEnveloped(ctx, req, &ranking); err != nil {
		return nil, err
	}
	return ranking, nil
}
