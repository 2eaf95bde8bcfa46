package server

import (
	"net/http"
	"time"

	"github.com/assocdesk/membership-service/internal/auth"
	"github.com/assocdesk/membership-service/internal/metrics"
	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/internal/workflow"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the route handlers wired into the router
type Handlers struct {
	Auth        *AuthHandler
	Application *ApplicationHandler
	Company     *CompanyHandler
	Content     *ContentHandler
	Region      *RegionHandler
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(h Handlers, tokens *auth.TokenManager, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())
	router.Use(m.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "membership-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", m.Handler())

	api := router.Group("/api/v1")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(auth.Middleware(tokens, logger))
	{
		apps := authed.Group("/applications")
		apps.POST("", h.Application.Create)
		apps.GET("", h.Application.List)
		apps.GET("/:id", h.Application.Get)
		apps.PUT("/:id", h.Application.UpdateForm)
		apps.GET("/:id/events", h.Application.Events)
		apps.POST("/:id/submit", h.Application.Transition(workflow.ActionSubmit))
		apps.POST("/:id/request-info", h.Application.Transition(workflow.ActionRequestInfo))
		apps.POST("/:id/region-approve", h.Application.Transition(workflow.ActionRegionApprove))
		apps.POST("/:id/national-approve", h.Application.Transition(workflow.ActionNationalApprove))
		apps.POST("/:id/reject", h.Application.Transition(workflow.ActionReject))

		companies := authed.Group("/companies")
		companies.POST("", h.Company.Create)
		companies.GET("", h.Company.List)
		companies.GET("/export", h.Company.Export)
		companies.GET("/:id", h.Company.Get)
		companies.PUT("/:id", h.Company.Update)

		authed.GET("/search", h.Company.Search)

		authed.GET("/regions", h.Region.List)
		authed.POST("/regions", auth.RequireRoles(models.RoleAdmin), h.Region.Create)

		editors := auth.RequireRoles(models.RoleAdmin, models.RoleNationalSecretariat)
		authed.POST("/news", editors, h.Content.CreateNews)
		authed.GET("/news", h.Content.ListNews)
		authed.GET("/news/:id", h.Content.GetNews)
		authed.POST("/projects", editors, h.Content.CreateProject)
		authed.GET("/projects", h.Content.ListProjects)
		authed.GET("/projects/:id", h.Content.GetProject)
		authed.POST("/meetings", editors, h.Content.CreateMeeting)
		authed.GET("/meetings", h.Content.ListMeetings)
		authed.GET("/meetings/:id", h.Content.GetMeeting)
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
