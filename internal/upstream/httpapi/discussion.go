package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Ensure DiscussionClient implements upstream.Discussion.
var _ upstream.Discussion = (*DiscussionClient)(nil)

// DiscussionClient talks to the discussion service. Unlike the catalog, the
// discussion service returns bare JSON with no envelope.
type DiscussionClient struct {
	c *client
}

// NewDiscussionClient creates a new DiscussionClient.
func NewDiscussionClient(baseURL string, httpc *http.Client, logger *zap.Logger) *DiscussionClient {
	return &DiscussionClient{c: newClient("discussion", baseURL, httpc, logger)}
}

func (dc *DiscussionClient) ListForProblem(ctx context.Context, problemID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	path := "/discussions/problem/" + strconv.FormatInt(problemID, 10)
	if _, err := dc.c.do(ctx, call{method: http.MethodGet, path: path}, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (dc *DiscussionClient) Create(ctx context.Context, in domain.CreateCommentInput, creds upstream.Credentials) (*domain.Comment, error) {
	var comment domain.Comment
	req := call{method: http.MethodPost, path: "/discussions", body: in, creds: creds}
	if _, err := dc.c.do(ctx, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (dc *DiscussionClient) Delete(ctx context.Context, id string, creds upstream.Credentials) error {
	req := call{method: http.MethodDelete, path: fmt.Sprintf("/discussions/%s", id), creds: creds}
	_, err := dc.c.do(ctx, req, nil)
	return err
}
