package server

import (
	"net/http"

	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegionHandler serves region endpoints
type RegionHandler struct {
	regionRepo *repository.RegionRepository
	logger     *zap.Logger
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(regionRepo *repository.RegionRepository, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{
		regionRepo: regionRepo,
		logger:     logger,
	}
}

type createRegionRequest struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// Create registers a regional chapter
func (h *RegionHandler) Create(c *gin.Context) {
	var req createRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	region := &models.Region{
		ID:   uuid.NewString(),
		Name: req.Name,
		Code: req.Code,
	}

	if err := h.regionRepo.Create(nil, region); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info("Region created", zap.String("region_id", region.ID), zap.String("code", region.Code))
	c.JSON(http.StatusCreated, region)
}

// List returns all regions
func (h *RegionHandler) List(c *gin.Context) {
	regions, err := h.regionRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"regions": regions})
}
