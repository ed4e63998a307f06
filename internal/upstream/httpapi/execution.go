package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Ensure ExecutionClient implements upstream.Execution.
var _ upstream.Execution = (*ExecutionClient)(nil)

// ExecutionClient talks to the execution/judge service. Creating a
// submission returns the pending record immediately; the verdict arrives
// later over the realtime channel, never through this client.
type ExecutionClient struct {
	c *client
}

// NewExecutionClient creates a new ExecutionClient.
func NewExecutionClient(baseURL string, httpc *http.Client, logger *zap.Logger) *ExecutionClient {
	return &ExecutionClient{c: newClient("execution", baseURL, httpc, logger)}
}

func (ec *ExecutionClient) CreateSubmission(ctx context.Context, in domain.CreateSubmissionInput, creds upstream.Credentials) (*domain.Submission, error) {
	var sub domain.Submission
	req := call{method: http.MethodPost, path: "/submissions", body: in, creds: creds}
	if _, err := ec.c.doEnveloped(ctx, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (ec *ExecutionClient) GetSubmission(ctx context.Context, id int64, creds upstream.Credentials) (*domain.Submission, error) {
	var sub domain.Submission
	req := call{method: http.MethodGet, path: fmt.Sprintf("/submissions/%d", id), creds: creds}
	if _, err := ec.c.doEnveloped(ctx, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (ec *ExecutionClient) ListUserSubmissions(ctx context.Context, userID string, creds upstream.Credentials) ([]domain.Submission, error) {
	var subs []domain.Submission
	req := call{method: http.MethodGet, path: "/submissions/user/" + userID, creds: creds}
	if _, err := ec.c.doEnveloped(ctx, req, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (ec *ExecutionClient) UserStats(ctx context.Context, userID string, creds upstream.Credentials) (*domain.UserStats, error) {
	var stats domain.UserStats
	req := call{method: http.MethodGet, path: "/submissions/user/" + userID + "/stats", creds: creds}
	if _, err := ec.c.doEnveloped(ctx, req, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
