package repository

import (
	"database/sql"
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"go.uber.org/zap"
)

// ContentRepository handles news, project and meeting database operations
type ContentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *sql.DB, logger *zap.Logger) *ContentRepository {
	return &ContentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateNews inserts a news item
func (r *ContentRepository) CreateNews(item *models.NewsItem) error {
	_, err := r.db.Exec(
		`INSERT INTO news (id, title, body, author_id, published_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.Title, item.Body, item.AuthorID, item.PublishedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create news item", zap.String("title", item.Title), zap.Error(err))
		return fmt.Errorf("failed to create news item: %w", err)
	}
	return nil
}

// GetNewsByID retrieves a news item by id, returning nil when absent
func (r *ContentRepository) GetNewsByID(id string) (*models.NewsItem, error) {
	var item models.NewsItem
	err := r.db.QueryRow(
		`SELECT id, title, body, author_id, published_at, created_at FROM news WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &item.Body, &item.AuthorID, &item.PublishedAt, &item.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}
	return &item, nil
}

// ListNews retrieves news items with pagination, newest first
func (r *ContentRepository) ListNews(limit, offset int) ([]*models.NewsItem, error) {
	rows, err := r.db.Query(
		`SELECT id, title, body, author_id, published_at, created_at
		FROM news ORDER BY published_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		r.logger.Error("Failed to list news", zap.Error(err))
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []*models.NewsItem
	for rows.Next() {
		var item models.NewsItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Body, &item.AuthorID, &item.PublishedAt, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// CreateProject inserts a project
func (r *ContentRepository) CreateProject(project *models.Project) error {
	_, err := r.db.Exec(
		`INSERT INTO projects (id, title, description, author_id) VALUES (?, ?, ?, ?)`,
		project.ID, project.Title, project.Description, project.AuthorID,
	)
	if err != nil {
		r.logger.Error("Failed to create project", zap.String("title", project.Title), zap.Error(err))
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetProjectByID retrieves a project by id, returning nil when absent
func (r *ContentRepository) GetProjectByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.QueryRow(
		`SELECT id, title, description, author_id, created_at FROM projects WHERE id = ?`, id,
	).Scan(&project.ID, &project.Title, &project.Description, &project.AuthorID, &project.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// ListProjects retrieves projects with pagination, newest first
func (r *ContentRepository) ListProjects(limit, offset int) ([]*models.Project, error) {
	rows, err := r.db.Query(
		`SELECT id, title, description, author_id, created_at
		FROM projects ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		r.logger.Error("Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(&project.ID, &project.Title, &project.Description, &project.AuthorID, &project.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &project)
	}
	return projects, rows.Err()
}

// CreateMeeting inserts a meeting
func (r *ContentRepository) CreateMeeting(meeting *models.Meeting) error {
	_, err := r.db.Exec(
		`INSERT INTO meetings (id, title, location, starts_at, author_id) VALUES (?, ?, ?, ?, ?)`,
		meeting.ID, meeting.Title, meeting.Location, meeting.StartsAt, meeting.AuthorID,
	)
	if err != nil {
		r.logger.Error("Failed to create meeting", zap.String("title", meeting.Title), zap.Error(err))
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// GetMeetingByID retrieves a meeting by id, returning nil when absent
func (r *ContentRepository) GetMeetingByID(id string) (*models.Meeting, error) {
	var meeting models.Meeting
	err := r.db.QueryRow(
		`SELECT id, title, location, starts_at, author_id, created_at FROM meetings WHERE id = ?`, id,
	).Scan(&meeting.ID, &meeting.Title, &meeting.Location, &meeting.StartsAt, &meeting.AuthorID, &meeting.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &meeting, nil
}

// ListMeetings retrieves meetings with pagination, soonest first
func (r *ContentRepository) ListMeetings(limit, offset int) ([]*models.Meeting, error) {
	rows, err := r.db.Query(
		`SELECT id, title, location, starts_at, author_id, created_at
		FROM meetings ORDER BY starts_at ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		r.logger.Error("Failed to list meetings", zap.Error(err))
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*models.Meeting
	for rows.Next() {
		var meeting models.Meeting
		if err := rows.Scan(&meeting.ID, &meeting.Title, &meeting.Location, &meeting.StartsAt, &meeting.AuthorID, &meeting.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, &meeting)
	}
	return meetings, rows.Err()
}
