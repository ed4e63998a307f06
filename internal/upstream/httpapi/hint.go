package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Ensure HintClient implements upstream.Hint.
var _ upstream.Hint = (*HintClient)(nil)

// HintClient talks to the AI hint service. The response is a freeform hint
// string wrapped in {success, hint}.
type HintClient struct {
	c *client
}

// NewHintClient creates a new HintClient.
func NewHintClient(baseURL string, httpc *http.Client, logger *zap.Logger) *HintClient {
	return &HintClient{c: newClient("ai", baseURL, httpc, logger)}
}

func (hc *HintClient) Fetch(ctx context.Context, in domain.HintRequest, creds upstream.Credentials) (string, error) {
	var out struct {
		Success bool   `json:"success"`
		Hint    string `json:"hint"`
	}
	req := call{method: http.MethodPost, path: "/ai/hint", body: in, creds: creds}
	if _, err := hc.c.do(ctx, req, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", fmt.Errorf("ai: hint generation rejected: %w", domain.ErrUpstream)
	}
	return out.Hint, nil
}
