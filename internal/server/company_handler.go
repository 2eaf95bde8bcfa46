package server

import (
	"net/http"
	"strconv"

	"github.com/assocdesk/membership-service/internal/auth"
	"github.com/assocdesk/membership-service/internal/export"
	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/internal/repository"
	"github.com/assocdesk/membership-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompanyHandler serves the company directory endpoints
type CompanyHandler struct {
	companyRepo *repository.CompanyRepository
	regionRepo  *repository.RegionRepository
	roster      *export.RosterWriter
	logger      *zap.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(
	companyRepo *repository.CompanyRepository,
	regionRepo *repository.RegionRepository,
	roster *export.RosterWriter,
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companyRepo: companyRepo,
		regionRepo:  regionRepo,
		roster:      roster,
		logger:      logger,
	}
}

type createCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	RegNumber   string `json:"reg_number" binding:"required"`
	RegionID    string `json:"region_id" binding:"required"`
	Website     string `json:"website"`
	OwnerUserID string `json:"owner_user_id"`
}

// Create registers a company. Company representatives become the owner of
// the companies they create; admins may set any owner.
func (h *CompanyHandler) Create(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateRegNumber(req.RegNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	region, err := h.regionRepo.GetByID(req.RegionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if region == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown region"})
		return
	}

	owner := actor.UserID
	if actor.Role == models.RoleAdmin && req.OwnerUserID != "" {
		owner = req.OwnerUserID
	}

	company := &models.Company{
		ID:          uuid.NewString(),
		Name:        req.Name,
		RegNumber:   req.RegNumber,
		RegionID:    req.RegionID,
		OwnerUserID: owner,
		Website:     req.Website,
	}

	if err := h.companyRepo.Create(nil, company); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.logger.Info("Company created",
		zap.String("company_id", company.ID),
		zap.String("owner_user_id", owner))

	c.JSON(http.StatusCreated, company)
}

// Get returns one company
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companyRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}
	c.JSON(http.StatusOK, company)
}

type updateCompanyRequest struct {
	Name      string `json:"name" binding:"required"`
	RegNumber string `json:"reg_number" binding:"required"`
	RegionID  string `json:"region_id" binding:"required"`
	Website   string `json:"website"`
}

// Update replaces a company's attributes; only the owner or an admin may
func (h *CompanyHandler) Update(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	company, err := h.companyRepo.GetByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	if actor.Role != models.RoleAdmin && actor.UserID != company.OwnerUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the owner or an admin may update a company"})
		return
	}

	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateRegNumber(req.RegNumber); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company.Name = req.Name
	company.RegNumber = req.RegNumber
	company.RegionID = req.RegionID
	company.Website = req.Website

	if err := h.companyRepo.Update(nil, company); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, company)
}

// List returns the directory with pagination
func (h *CompanyHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, offset = utils.NormalizePagination(limit, offset)

	companies, err := h.companyRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies, "limit": limit, "offset": offset})
}

// Search returns companies whose name contains the q substring
func (h *CompanyHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, offset = utils.NormalizePagination(limit, offset)

	companies, err := h.companyRepo.SearchByName(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies, "limit": limit, "offset": offset})
}

// Export streams the full directory as an xlsx workbook
func (h *CompanyHandler) Export(c *gin.Context) {
	companies, err := h.companyRepo.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	regions, err := h.regionRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	regionNames := make(map[string]string, len(regions))
	for _, region := range regions {
		regionNames[region.ID] = region.Name
	}

	workbook, err := h.roster.Build(companies, regionNames)
	if err != nil {
		h.logger.Error("Failed to build roster", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="company-roster.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("Failed to write roster", zap.Error(err))
	}
}
