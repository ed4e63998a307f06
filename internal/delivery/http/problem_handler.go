package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/upstream"
)

// ProblemHandler proxies the problem catalog: public browsing plus the
// admin mutations (the admin screens themselves live elsewhere).
type ProblemHandler struct {
	catalog upstream.Catalog
	logger  *zap.Logger
}

// NewProblemHandler creates a new ProblemHandler.
func NewProblemHandler(catalog upstream.Catalog, logger *zap.Logger) *ProblemHandler {
	return &ProblemHandler{catalog: catalog, logger: logger}
}

// List handles GET /api/v1/problems
func (h *ProblemHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	filters := domain.ProblemFilters{
		Page:       page,
		Size:       size,
		Difficulty: domain.Difficulty(c.Query("difficulty")),
		Search:     c.Query("search"),
	}

	result, err := h.catalog.List(c.Request.Context(), filters)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search handles GET /api/v1/problems/search
func (h *ProblemHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, []domain.ProblemSummary{})
		return
	}

	results, err := h.catalog.Search(c.Request.Context(), q)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Get handles GET /api/v1/problems/:id
func (h *ProblemHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	problem, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Explicit not-found state for the detail view, not a generic error.
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, problem)
}

// Create handles POST /api/v1/admin/problems
func (h *ProblemHandler) Create(c *gin.Context) {
	var in domain.ProblemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validProblemInput(c, &in) {
		return
	}

	problem, err := h.catalog.Create(c.Request.Context(), in, c.GetHeader("Authorization"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, problem)
}

// Update handles PUT /api/v1/admin/problems/:id
func (h *ProblemHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	var in domain.ProblemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !validProblemInput(c, &in) {
		return
	}

	problem, err := h.catalog.Update(c.Request.Context(), id, in, c.GetHeader("Authorization"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, problem)
}

// Delete handles DELETE /api/v1/admin/problems/:id
func (h *ProblemHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid problem ID"})
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id, c.GetHeader("Authorization")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
			return
		}
		h.respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// validProblemInput applies the trivial client-side checks the catalog
// service would otherwise reject: a minimum description and at least one
// test case.
func validProblemInput(c *gin.Context, in *domain.ProblemInput) bool {
	if len(in.Description) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description must be at least 10 characters"})
		return false
	}
	if len(in.TestCases) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one test case is required"})
		return false
	}
	return true
}

func (h *ProblemHandler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		h.logger.Error("Catalog request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Problem service unavailable"})
	}
}
