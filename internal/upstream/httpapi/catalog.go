package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Ensure CatalogClient implements upstream.Catalog.
var _ upstream.Catalog = (*CatalogClient)(nil)

// CatalogClient talks to the problem catalog service. All responses are
// wrapped in the {success, message, data, errors} envelope.
type CatalogClient struct {
	c *client
}

// NewCatalogClient creates a new CatalogClient.
func NewCatalogClient(baseURL string, httpc *http.Client, logger *zap.Logger) *CatalogClient {
	return &CatalogClient{c: newClient("catalog", baseURL, httpc, logger)}
}

func (cc *CatalogClient) List(ctx context.Context, filters domain.ProblemFilters) (*domain.Page[domain.ProblemSummary], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(filters.Page))
	size := filters.Size
	if size <= 0 {
		size = 10
	}
	query.Set("size", strconv.Itoa(size))
	if filters.Difficulty != "" {
		query.Set("difficulty", string(filters.Difficulty))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}

	var page domain.Page[domain.ProblemSummary]
	if _, err := cc.c.doEnveloped(ctx, call{method: http.MethodGet, path: "/problems", query: query}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (cc *CatalogClient) Search(ctx context.Context, q string) ([]domain.ProblemSummary, error) {
	query := url.Values{}
	query.Set("q", q)

	var results []domain.ProblemSummary
	if _, err := cc.c.doEnveloped(ctx, call{method: http.MethodGet, path: "/problems/search", query: query}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (cc *CatalogClient) Get(ctx context.Context, id int64) (*domain.Problem, error) {
	var problem domain.Problem
	if _, err := cc.c.doEnveloped(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/problems/%d", id)}, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (cc *CatalogClient) Create(ctx context.Context, in domain.ProblemInput, authHeader string) (*domain.Problem, error) {
	var problem domain.Problem
	req := call{method: http.MethodPost, path: "/problems", body: in, header: bearerHeader(authHeader)}
	if _, err := cc.c.doEnveloped(ctx, req, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (cc *CatalogClient) Update(ctx context.Context, id int64, in domain.ProblemInput, authHeader string) (*domain.Problem, error) {
	var problem domain.Problem
	req := call{method: http.MethodPut, path: fmt.Sprintf("/problems/%d", id), body: in, header: bearerHeader(authHeader)}
	if _, err := cc.c.doEnveloped(ctx, req, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

func (cc *CatalogClient) Delete(ctx context.Context, id int64, authHeader string) error {
	req := call{method: http.MethodDelete, path: fmt.Sprintf("/problems/%d", id), header: bearerHeader(authHeader)}
	_, err := cc.c.do(ctx, req, nil)
	return err
}

func bearerHeader(authHeader string) http.Header {
	h := http.Header{}
	if authHeader != "" {
		h.Set("Authorization", authHeader)
	}
	return h
}
