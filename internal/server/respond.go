package server

import (
	"errors"
	"net/http"

	"github.com/assocdesk/membership-service/internal/workflow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeEngineError maps workflow failures onto HTTP statuses: 404 for
// missing applications, 403 for authorization failures, 409 for illegal
// transitions (including lost races), 500 for store failures.
func writeEngineError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Store failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// outcomeLabel classifies a transition result for metrics
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, workflow.ErrNotFound):
		return "not_found"
	case errors.Is(err, workflow.ErrForbidden):
		return "forbidden"
	case errors.Is(err, workflow.ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "error"
	}
}
