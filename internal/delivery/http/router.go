package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/delivery/http/middleware"
	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/session"
	"github.com/codearena/frontend/internal/upstream"
)

// adminFallback is where non-admin users are redirected instead of the admin
// console.
const adminFallback = "/dashboard"

// maxSubmitBody bounds the submit payload (source code plus metadata).
const maxSubmitBody = 1 << 20 // 1 MB

// RouterDeps carries everything the router needs.
type RouterDeps struct {
	Logger          *zap.Logger
	RateLimitPerMin int

	Sessions      *session.Registry
	SessionOpts   session.Options
	SessionCookie string

	Identity    upstream.Identity
	Catalog     upstream.Catalog
	Execution   upstream.Execution
	Discussion  upstream.Discussion
	Leaderboard upstream.Leaderboard
	Hints       upstream.Hint
}

// NewRouter creates and configures the Gin router with all routes and middleware.
func NewRouter(deps *RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.ResolveSession(deps.Sessions, deps.SessionCookie))

	// Metrics endpoint (no rate limiting)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")
	if deps.RateLimitPerMin > 0 {
		v1.Use(middleware.RateLimiter(deps.RateLimitPerMin))
	}
	{
		// Health check
		healthHandler := NewHealthHandler(deps.Logger)
		v1.GET("/health", healthHandler.Health)

		// Editor languages
		langHandler := NewLanguageHandler()
		v1.GET("/languages", langHandler.List)

		// Session lifecycle
		authHandler := NewAuthHandler(deps.Identity, deps.Sessions, deps.SessionOpts, deps.SessionCookie, deps.Logger)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authHandler.Me)
		}

		// Problem catalog
		problemHandler := NewProblemHandler(deps.Catalog, deps.Logger)
		v1.GET("/problems", problemHandler.List)
		v1.GET("/problems/search", problemHandler.Search)
		v1.GET("/problems/:id", problemHandler.Get)

		// Admin catalog operations (role-gated; the screens live client-side)
		admin := v1.Group("/admin", middleware.RequireRole(adminFallback, domain.RoleAdmin))
		{
			admin.POST("/problems", problemHandler.Create)
			admin.PUT("/problems/:id", problemHandler.Update)
			admin.DELETE("/problems/:id", problemHandler.Delete)
		}

		// Submissions
		subHandler := NewSubmissionHandler(deps.Execution, deps.Logger)
		subs := v1.Group("/submissions", middleware.RequireAuth())
		{
			subs.POST("", middleware.MaxBodySize(maxSubmitBody), subHandler.Submit)
			subs.GET("/current", subHandler.Current)
			subs.GET("/mine", subHandler.Mine)
			subs.GET("/stats", subHandler.Stats)
			subs.GET("/:id", subHandler.Get)
		}

		// Discussions
		discHandler := NewDiscussionHandler(deps.Discussion, deps.Logger)
		v1.GET("/discussions/problem/:id", discHandler.ListForProblem)
		v1.POST("/discussions", middleware.RequireAuth(), discHandler.Create)
		v1.DELETE("/discussions/:id", middleware.RequireAuth(), discHandler.Delete)

		// Leaderboard
		lbHandler := NewLeaderboardHandler(deps.Leaderboard, deps.Logger)
		v1.GET("/leaderboard", lbHandler.Global)

		// AI hints
		hintHandler := NewHintHandler(deps.Hints, deps.Logger)
		v1.POST("/ai/hint", middleware.RequireAuth(), hintHandler.Fetch)

		// Browser push socket for submission updates
		streamHandler := NewStreamHandler(deps.Logger)
		v1.GET("/ws", middleware.RequireAuth(), streamHandler.Stream)
	}

	return router
}
