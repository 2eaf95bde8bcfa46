package repository

import (
	"database/sql"
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"go.uber.org/zap"
)

// EventRepository handles the append-only application event log
type EventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, logger *zap.Logger) *EventRepository {
	return &EventRepository{
		db:     db,
		logger: logger,
	}
}

// Append records one executed transition. Only ever called inside the
// engine's transaction; events are never updated or deleted.
func (r *EventRepository) Append(tx *sql.Tx, event *models.ApplicationEvent) error {
	query := `
		INSERT INTO application_events (
			id, application_id, action, actor_id, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, event.ID, event.ApplicationID, event.Action, event.ActorID, event.Metadata, event.CreatedAt)
	} else {
		_, err = r.db.Exec(query, event.ID, event.ApplicationID, event.Action, event.ActorID, event.Metadata, event.CreatedAt)
	}

	if err != nil {
		r.logger.Error("Failed to append application event",
			zap.String("application_id", event.ApplicationID),
			zap.String("action", event.Action),
			zap.Error(err))
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// ListByApplicationID retrieves all events for an application, oldest first
func (r *EventRepository) ListByApplicationID(applicationID string) ([]*models.ApplicationEvent, error) {
	query := `
		SELECT id, application_id, action, actor_id, metadata, created_at
		FROM application_events
		WHERE application_id = ?
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := r.db.Query(query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list application events",
			zap.String("application_id", applicationID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.ApplicationEvent
	for rows.Next() {
		var event models.ApplicationEvent
		err := rows.Scan(
			&event.ID,
			&event.ApplicationID,
			&event.Action,
			&event.ActorID,
			&event.Metadata,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}

	return events, rows.Err()
}

// CountByApplicationID returns the number of recorded events for an application
func (r *EventRepository) CountByApplicationID(applicationID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM application_events WHERE application_id = ?`,
		applicationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}
