package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/metrics"
	"github.com/codearena/frontend/internal/upstream"
)

// envelope is the {success, message, data, errors} wrapper used by the
// catalog, execution and leaderboard services.
type envelope struct {
	Success bool            `json:"success"`
	Message *string         `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

// call describes one upstream HTTP request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	creds  upstream.Credentials
	header http.Header
}

// client is the shared HTTP core for all service clients. It issues exactly
// one request per call: no retries, no caching (the backends own those
// concerns).
type client struct {
	service string
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

func newClient(service, baseURL string, httpc *http.Client, logger *zap.Logger) *client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		logger:  logger,
	}
}

// do issues the request and decodes a bare JSON response into out. The
// returned response has a drained, closed body; it is only useful for
// headers and cookies.
func (c *client) do(ctx context.Context, req call, out any) (*http.Response, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", c.service, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.service, err)
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	for _, ck := range req.creds.Cookies {
		httpReq.AddCookie(ck)
	}

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	metrics.UpstreamRequestDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(c.service, "error").Inc()
		return nil, fmt.Errorf("%s: %s %s: %w", c.service, req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(c.service, "error").Inc()
		return nil, fmt.Errorf("%s: read response: %w", c.service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := c.statusError(req, resp.StatusCode, raw)
		return resp, statusErr
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(c.service, "ok").Inc()

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, fmt.Errorf("%s: decode response: %w", c.service, err)
		}
	}
	return resp, nil
}

// doEnveloped issues the request and unwraps the {success, data} envelope
// into out.
func (c *client) doEnveloped(ctx context.Context, req call, out any) (*http.Response, error) {
	var env envelope
	resp, err := c.do(ctx, req, &env)
	if err != nil {
		return resp, err
	}
	if !env.Success {
		msg := "request rejected"
		if env.Message != nil {
			msg = *env.Message
		}
		return resp, fmt.Errorf("%s: %s: %w", c.service, msg, domain.ErrUpstream)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return resp, fmt.Errorf("%s: decode envelope data: %w", c.service, err)
		}
	}
	return resp, nil
}

// statusError maps an upstream status code onto the domain error taxonomy.
// 404 on single-resource lookups is a normal outcome, not a failure.
func (c *client) statusError(req call, status int, raw []byte) error {
	outcome := "error"
	var err error
	switch {
	case status == http.StatusNotFound:
		outcome = "not_found"
		err = domain.ErrNotFound
	case status == http.StatusUnauthorized:
		outcome = "unauthenticated"
		err = domain.ErrUnauthenticated
	case status == http.StatusForbidden:
		err = domain.ErrForbidden
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		err = fmt.Errorf("%s: %w", upstreamMessage(raw), domain.ErrValidation)
	default:
		c.logger.Warn("Upstream request failed",
			zap.String("service", c.service),
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Int("status", status),
		)
		err = fmt.Errorf("%s (status %d): %w", upstreamMessage(raw), status, domain.ErrUpstream)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(c.service, outcome).Inc()
	return err
}

// upstreamMessage digs a human-readable message out of an error body.
func upstreamMessage(raw []byte) string {
	var body struct {
		Message *string `json:"message"`
		Error   *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != nil && *body.Message != "" {
			return *body.Message
		}
		if body.Error != nil && *body.Error != "" {
			return *body.Error
		}
	}
	return "upstream rejected request"
}
