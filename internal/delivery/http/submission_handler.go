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

// submitRequest is the browser's submit payload. The user id comes from the
// session, never from the client.
type submitRequest struct {
	ProblemID  int64  `json:"problemId" binding:"required"`
	Language   string `json:"language" binding:"required"`
	SourceCode string `json:"sourceCode" binding:"required"`
}

// SubmissionHandler creates submissions against the execution service and
// hands them to the session's tracker. Verdicts arrive later over the push
// socket; this handler never polls for them.
type SubmissionHandler struct {
	execution upstream.Execution
	logger    *zap.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(execution upstream.Execution, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{execution: execution, logger: logger}
}

// Submit handles POST /api/v1/submissions
func (h *SubmissionHandler) Submit(c *gin.Context) {
	s := middleware.SessionFrom(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	in := domain.CreateSubmissionInput{
		UserID:     s.User().ID,
		ProblemID:  req.ProblemID,
		Language:   req.Language,
		SourceCode: req.SourceCode,
	}

	sub, err := h.execution.CreateSubmission(c.Request.Context(), in, s.Credentials())
	if err != nil {
		// A failed create is never tracked: the submitting indicator clears
		// in this same error path.
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Submission create failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to submit code. Please try again."})
		}
		return
	}

	s.Tracker().Track(sub)
	c.JSON(http.StatusAccepted, sub)
}

// Get handles GET /api/v1/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	s := middleware.SessionFrom(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	sub, err := h.execution.GetSubmission(c.Request.Context(), id, s.Credentials())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
			return
		}
		h.logger.Error("Get submission failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Execution service unavailable"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Current handles GET /api/v1/submissions/current
func (h *SubmissionHandler) Current(c *gin.Context) {
	s := middleware.SessionFrom(c)

	sub, inFlight, ok := s.Tracker().Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No tracked submission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission": sub, "inFlight": inFlight})
}

// Mine handles GET /api/v1/submissions/mine
func (h *SubmissionHandler) Mine(c *gin.Context) {
	s := middleware.SessionFrom(c)

	subs, err := h.execution.ListUserSubmissions(c.Request.Context(), s.User().ID, s.Credentials())
	if err != nil {
		h.logger.Error("List submissions failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Execution service unavailable"})
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	c.JSON(http.StatusOK, subs)
}

// Stats handles GET /api/v1/submissions/stats
func (h *SubmissionHandler) Stats(c *gin.Context) {
	s := middleware.SessionFrom(c)

	stats, err := h.execution.UserStats(c.Request.Context(), s.User().ID, s.Credentials())
	if err != nil {
		h.logger.Error("User stats failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Execution service unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
