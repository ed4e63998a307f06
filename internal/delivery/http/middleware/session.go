package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/session"
)

// SessionKey is the gin context key holding the resolved *session.Session.
const SessionKey = "session"

// ResolveSession looks up the caller's session from the gateway cookie and
// attaches it to the request context. Requests without a live session pass
// through with no session attached; gating happens in RequireAuth.
func ResolveSession(reg *session.Registry, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ck, err := c.Cookie(cookieName); err == nil {
			if s := reg.Get(ck); s != nil {
				s.Touch()
				c.Set(SessionKey, s)
			}
		}
		c.Next()
	}
}

// SessionFrom extracts the resolved session, or nil.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// RequireAuth rejects requests without an authenticated session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s == nil || !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not allowed. The
// response carries the path the front-end should redirect to instead of
// rendering the protected view.
func RequireRole(fallbackPath string, allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s == nil || !s.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		role := s.User().Role
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Insufficient role",
			"redirect": fallbackPath,
		})
	}
}
