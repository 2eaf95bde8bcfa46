package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/assocdesk/membership-service/internal/auth"
	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/internal/repository"
	"github.com/assocdesk/membership-service/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContentHandler serves news, project and meeting endpoints
type ContentHandler struct {
	contentRepo *repository.ContentRepository
	logger      *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentRepo *repository.ContentRepository, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		contentRepo: contentRepo,
		logger:      logger,
	}
}

func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return utils.NormalizePagination(limit, offset)
}

type createNewsRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

// CreateNews publishes a news item
func (h *ContentHandler) CreateNews(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var req createNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.NewsItem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Body:        req.Body,
		AuthorID:    actor.UserID,
		PublishedAt: time.Now().UTC(),
	}

	if err := h.contentRepo.CreateNews(item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListNews returns news items, newest first
func (h *ContentHandler) ListNews(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.contentRepo.ListNews(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items, "limit": limit, "offset": offset})
}

// GetNews returns one news item
func (h *ContentHandler) GetNews(c *gin.Context) {
	item, err := h.contentRepo.GetNewsByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "news item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateProject registers a project
func (h *ContentHandler) CreateProject(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    actor.UserID,
	}

	if err := h.contentRepo.CreateProject(project); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects returns projects, newest first
func (h *ContentHandler) ListProjects(c *gin.Context) {
	limit, offset := pagination(c)
	projects, err := h.contentRepo.ListProjects(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects, "limit": limit, "offset": offset})
}

// GetProject returns one project
func (h *ContentHandler) GetProject(c *gin.Context) {
	project, err := h.contentRepo.GetProjectByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if project == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	c.JSON(http.StatusOK, project)
}

type createMeetingRequest struct {
	Title    string    `json:"title" binding:"required"`
	Location string    `json:"location" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
}

// CreateMeeting schedules a meeting
func (h *ContentHandler) CreateMeeting(c *gin.Context) {
	actor, _ := auth.ActorFrom(c)

	var req createMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting := &models.Meeting{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Location: req.Location,
		StartsAt: req.StartsAt,
		AuthorID: actor.UserID,
	}

	if err := h.contentRepo.CreateMeeting(meeting); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, meeting)
}

// ListMeetings returns meetings, soonest first
func (h *ContentHandler) ListMeetings(c *gin.Context) {
	limit, offset := pagination(c)
	meetings, err := h.contentRepo.ListMeetings(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings, "limit": limit, "offset": offset})
}

// GetMeeting returns one meeting
func (h *ContentHandler) GetMeeting(c *gin.Context) {
	meeting, err := h.contentRepo.GetMeetingByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if meeting == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meeting not found"})
		return
	}
	c.JSON(http.StatusOK, meeting)
}
