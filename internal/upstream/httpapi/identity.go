package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// Ensure IdentityClient implements upstream.Identity.
var _ upstream.Identity = (*IdentityClient)(nil)

// IdentityClient talks to the identity service. Authentication is carried in
// session cookies set by the service; the client relays them, it never
// inspects them.
type IdentityClient struct {
	c *client
}

// NewIdentityClient creates a new IdentityClient.
func NewIdentityClient(baseURL string, httpc *http.Client, logger *zap.Logger) *IdentityClient {
	return &IdentityClient{c: newClient("identity", baseURL, httpc, logger)}
}

func (ic *IdentityClient) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthUser, []*http.Cookie, error) {
	var out struct {
		User domain.AuthUser `json:"user"`
	}
	resp, err := ic.c.do(ctx, call{method: http.MethodPost, path: "/login", body: in}, &out)
	if err != nil {
		return nil, nil, err
	}
	user := out.User
	applyRoleDefault(&user)
	return &user, resp.Cookies(), nil
}

func (ic *IdentityClient) Signup(ctx context.Context, in domain.SignupInput) error {
	// The service replies with only a confirmation message.
	_, err := ic.c.do(ctx, call{method: http.MethodPost, path: "/signup", body: in}, nil)
	return err
}

func (ic *IdentityClient) Logout(ctx context.Context, creds upstream.Credentials) error {
	_, err := ic.c.do(ctx, call{method: http.MethodPost, path: "/logout", creds: creds}, nil)
	return err
}

func (ic *IdentityClient) Refresh(ctx context.Context, creds upstream.Credentials) ([]*http.Cookie, error) {
	resp, err := ic.c.do(ctx, call{method: http.MethodPost, path: "/refresh", body: struct{}{}, creds: creds}, nil)
	if err != nil {
		return nil, err
	}
	return resp.Cookies(), nil
}

func (ic *IdentityClient) Me(ctx context.Context, creds upstream.Credentials) (*domain.AuthUser, error) {
	var user domain.AuthUser
	if _, err := ic.c.do(ctx, call{method: http.MethodGet, path: "/me", creds: creds}, &user); err != nil {
		return nil, err
	}
	applyRoleDefault(&user)
	return &user, nil
}

// applyRoleDefault fills in USER when the service omits the role field.
func applyRoleDefault(u *domain.AuthUser) {
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
}
