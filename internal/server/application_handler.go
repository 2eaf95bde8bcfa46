package server

import (
	"net/http"
	"strconv"

	"github.com/assocdesk/membership-service/internal/auth"
	"github.com/assocdesk/membership-service/internal/metrics"
	"github.com/assocdesk/membership-service/internal/workflow"
	"github.com/assocdesk/membership-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApplicationHandler serves the membership application endpoints
type ApplicationHandler struct {
	engine  *workflow.Engine
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(engine *workflow.Engine, m *metrics.Metrics, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		engine:  engine,
		metrics: m,
		logger:  logger,
	}
}

type createApplicationRequest struct {
	CompanyID string `json:"company_id" binding:"required"`
	FormData  string `json:"form_data"`
}

// Create opens a new DRAFT application
func (h *ApplicationHandler) Create(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.engine.CreateDraft(c.Request.Context(), actor, req.CompanyID, req.FormData)
	if err != nil {
		writeEngineError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// List returns the applications visible to the actor
func (h *ApplicationHandler) List(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, offset = utils.NormalizePagination(limit, offset)

	apps, err := h.engine.List(c.Request.Context(), actor, limit, offset)
	if err != nil {
		writeEngineError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps, "limit": limit, "offset": offset})
}

// Get returns one application within the actor's read scope
func (h *ApplicationHandler) Get(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	app, err := h.engine.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		writeEngineError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

type updateFormRequest struct {
	FormData string `json:"form_data" binding:"required"`
}

// UpdateForm replaces the form payload of an editable application
func (h *ApplicationHandler) UpdateForm(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req updateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.engine.UpdateDraftForm(c.Request.Context(), c.Param("id"), actor, req.FormData)
	if err != nil {
		writeEngineError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// Events returns the ordered audit trail of an application within the
// actor's read scope
func (h *ApplicationHandler) Events(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	events, err := h.engine.Events(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		writeEngineError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Transition returns a handler firing the given action against the
// application in the path
func (h *ApplicationHandler) Transition(action workflow.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := auth.ActorFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		var payload workflow.TransitionPayload
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		app, err := h.engine.ApplyTransition(c.Request.Context(), c.Param("id"), action, actor, payload)
		h.metrics.ObserveTransition(action.String(), outcomeLabel(err))
		if err != nil {
			writeEngineError(c, h.logger, err)
			return
		}

		c.JSON(http.StatusOK, app)
	}
}
