package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/delivery/http/middleware"
	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// DiscussionHandler proxies the discussion service's comment trees.
type DiscussionHandler struct {
	discussion upstream.Discussion
	logger     *zap.Logger
}

// NewDiscussionHandler creates a new DiscussionHandler.
func NewDiscussionHandler(discussion upstream.Discussion, logger *zap.Logger) *DiscussionHandler {
	return &DiscussionHandler{discussion: discussion, logger: logger}
}

// ListForProblem handles GET /api/v1/discussions/problem/:id
func (h *DiscussionHandler) ListForProblem(c *gin.Context) {
	problemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	comments, err := h.discussion.ListForProblem(c.Request.Context(), problemID)
	if err != nil {
		h.logger.Error("List comments failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Discussion service unavailable"})
		return
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

// Create handles POST /api/v1/discussions
func (h *DiscussionHandler) Create(c *gin.Context) {
	s := middleware.SessionFrom(c)

	var in domain.CreateCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	// Author identity always comes from the session.
	user := s.User()
	in.UserID = user.ID
	in.Username = user.Username

	comment, err := h.discussion.Create(c.Request.Context(), in, s.Credentials())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Create comment failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Discussion service unavailable"})
		}
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Delete handles DELETE /api/v1/discussions/:id
func (h *DiscussionHandler) Delete(c *gin.Context) {
	s := middleware.SessionFrom(c)
	id := c.Param("id")

	if err := h.discussion.Delete(c.Request.Context(), id, s.Credentials()); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your comment"})
		default:
			h.logger.Error("Delete comment failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Discussion service unavailable"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
