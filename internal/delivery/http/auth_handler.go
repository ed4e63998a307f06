package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/delivery/http/middleware"
	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/session"
	"github.com/codearena/frontend/internal/upstream"
)

const (
	loginRedirect  = "/dashboard"
	logoutRedirect = "/login"
)

// AuthHandler manages the session lifecycle: login, signup, logout and the
// bootstrap who-am-I check the front-end runs on startup.
type AuthHandler struct {
	identity   upstream.Identity
	sessions   *session.Registry
	opts       session.Options
	cookieName string
	logger     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity upstream.Identity, sessions *session.Registry, opts session.Options, cookieName string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity:   identity,
		sessions:   sessions,
		opts:       opts,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in domain.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	s := session.New(h.identity, h.opts, h.logger)
	user, err := s.Login(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		default:
			h.logger.Error("Login failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Identity service unavailable"})
		}
		return
	}

	// The browser's prior session, if any, is superseded by this login.
	if prior := middleware.SessionFrom(c); prior != nil {
		h.sessions.Remove(prior.ID())
	}
	h.sessions.Add(s)
	h.setSessionCookie(c, s.ID())
	c.JSON(http.StatusOK, gin.H{"user": user, "redirect": loginRedirect})
}

// Signup handles POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var in domain.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.identity.Signup(c.Request.Context(), in); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email may already be in use"})
		default:
			h.logger.Error("Signup failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Identity service unavailable"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created", "redirect": logoutRedirect})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if s == nil {
		// Nothing to tear down; treat as already logged out.
		c.JSON(http.StatusOK, gin.H{"redirect": logoutRedirect})
		return
	}

	if err := s.Logout(c.Request.Context()); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Logout failed"})
		return
	}

	h.sessions.Remove(s.ID())
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"redirect": logoutRedirect})
}

// Me handles GET /api/v1/auth/me. When no gateway session exists it attempts
// a bootstrap from whatever identity cookies the browser still carries: one
// who-am-I, on failure one silent refresh and a single retry. 401 here is
// the normal "unauthenticated" signal, never a hard failure.
func (h *AuthHandler) Me(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if s != nil && s.Authenticated() {
		c.JSON(http.StatusOK, s.User())
		return
	}
	if s != nil {
		// An unauthenticated session under this cookie is dead weight; drop
		// it before bootstrapping a replacement.
		h.sessions.Remove(s.ID())
	}

	s = session.New(h.identity, h.opts, h.logger)
	s.Bootstrap(c.Request.Context(), c.Request.Cookies())
	if !s.Authenticated() {
		s.Close()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	h.sessions.Add(s)
	h.setSessionCookie(c, s.ID())
	c.JSON(http.StatusOK, s.User())
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, id, 0, "/", "", false, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
}
