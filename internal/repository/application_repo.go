package repository

import (
	"database/sql"
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"go.uber.org/zap"
)

// ApplicationRepository handles membership application database operations
type ApplicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) *ApplicationRepository {
	return &ApplicationRepository{
		db:     db,
		logger: logger,
	}
}

const applicationColumns = `id, company_id, submitter_id, region_id, state,
	reason_rejected, form_data, submitted_at, decided_at, created_at, updated_at`

// Create inserts a new application in DRAFT
func (r *ApplicationRepository) Create(tx *sql.Tx, app *models.MembershipApplication) error {
	query := `
		INSERT INTO membership_applications (
			id, company_id, submitter_id, region_id, state, form_data
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, app.ID, app.CompanyID, app.SubmitterID, app.RegionID, app.State, app.FormData)
	} else {
		_, err = r.db.Exec(query, app.ID, app.CompanyID, app.SubmitterID, app.RegionID, app.State, app.FormData)
	}

	if err != nil {
		r.logger.Error("Failed to create application", zap.String("id", app.ID), zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by id, returning nil when absent
func (r *ApplicationRepository) GetByID(id string) (*models.MembershipApplication, error) {
	query := fmt.Sprintf(`SELECT %s FROM membership_applications WHERE id = ?`, applicationColumns)

	app, err := r.scanOne(r.db.QueryRow(query, id))
	if err != nil {
		r.logger.Error("Failed to get application by ID", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return app, nil
}

// UpdateStateGuarded persists a transitioned application. The update only
// matches while the row is still in expectedState; the returned count is zero
// when a concurrent transition committed first. Only transition-owned columns
// are written; the form payload stays whatever the row holds.
func (r *ApplicationRepository) UpdateStateGuarded(tx *sql.Tx, app *models.MembershipApplication, expectedState string) (int64, error) {
	query := `
		UPDATE membership_applications
		SET state = ?, reason_rejected = ?, submitted_at = ?, decided_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND state = ?
	`

	var result sql.Result
	var err error

	if tx != nil {
		result, err = tx.Exec(query, app.State, app.ReasonRejected, app.SubmittedAt, app.DecidedAt, app.ID, expectedState)
	} else {
		result, err = r.db.Exec(query, app.State, app.ReasonRejected, app.SubmittedAt, app.DecidedAt, app.ID, expectedState)
	}

	if err != nil {
		r.logger.Error("Failed to update application state",
			zap.String("id", app.ID),
			zap.String("state", app.State),
			zap.Error(err))
		return 0, fmt.Errorf("failed to update application: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected, nil
}

// UpdateFormData replaces the form payload of a draft owned by the submitter
func (r *ApplicationRepository) UpdateFormData(tx *sql.Tx, id, formData string) error {
	query := `UPDATE membership_applications SET form_data = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, formData, id)
	} else {
		_, err = r.db.Exec(query, formData, id)
	}

	if err != nil {
		r.logger.Error("Failed to update form data", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to update form data: %w", err)
	}
	return nil
}

// List retrieves applications with pagination, newest first
func (r *ApplicationRepository) List(limit, offset int) ([]*models.MembershipApplication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM membership_applications
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, applicationColumns)

	return r.queryMany(query, limit, offset)
}

// ListByRegion retrieves applications belonging to one region
func (r *ApplicationRepository) ListByRegion(regionID string, limit, offset int) ([]*models.MembershipApplication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM membership_applications
		WHERE region_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, applicationColumns)

	return r.queryMany(query, regionID, limit, offset)
}

// ListByCompanyOwner retrieves applications for companies owned by the user
func (r *ApplicationRepository) ListByCompanyOwner(ownerUserID string, limit, offset int) ([]*models.MembershipApplication, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM membership_applications
		WHERE company_id IN (SELECT id FROM companies WHERE owner_user_id = ?)
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, applicationColumns)

	return r.queryMany(query, ownerUserID, limit, offset)
}

func (r *ApplicationRepository) queryMany(query string, args ...interface{}) ([]*models.MembershipApplication, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.MembershipApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

func (r *ApplicationRepository) scanOne(row *sql.Row) (*models.MembershipApplication, error) {
	app, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(s scanner) (*models.MembershipApplication, error) {
	var app models.MembershipApplication
	var reason sql.NullString
	var submittedAt, decidedAt sql.NullTime

	err := s.Scan(
		&app.ID,
		&app.CompanyID,
		&app.SubmitterID,
		&app.RegionID,
		&app.State,
		&reason,
		&app.FormData,
		&submittedAt,
		&decidedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if reason.Valid {
		app.ReasonRejected = &reason.String
	}
	if submittedAt.Valid {
		app.SubmittedAt = &submittedAt.Time
	}
	if decidedAt.Valid {
		app.DecidedAt = &decidedAt.Time
	}

	return &app, nil
}
