package repository

import (
	"database/sql"
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"go.uber.org/zap"
)

// RegionRepository handles region database operations
type RegionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRegionRepository creates a new region repository
func NewRegionRepository(db *sql.DB, logger *zap.Logger) *RegionRepository {
	return &RegionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new region
func (r *RegionRepository) Create(tx *sql.Tx, region *models.Region) error {
	query := `INSERT INTO regions (id, name, code) VALUES (?, ?, ?)`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, region.ID, region.Name, region.Code)
	} else {
		_, err = r.db.Exec(query, region.ID, region.Name, region.Code)
	}

	if err != nil {
		r.logger.Error("Failed to create region", zap.String("name", region.Name), zap.Error(err))
		return fmt.Errorf("failed to create region: %w", err)
	}

	return nil
}

// GetByID retrieves a region by id, returning nil when absent
func (r *RegionRepository) GetByID(id string) (*models.Region, error) {
	var region models.Region
	err := r.db.QueryRow(
		`SELECT id, name, code, created_at FROM regions WHERE id = ?`, id,
	).Scan(&region.ID, &region.Name, &region.Code, &region.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get region", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get region: %w", err)
	}

	return &region, nil
}

// List retrieves all regions sorted by name
func (r *RegionRepository) List() ([]*models.Region, error) {
	rows, err := r.db.Query(`SELECT id, name, code, created_at FROM regions ORDER BY name ASC`)
	if err != nil {
		r.logger.Error("Failed to list regions", zap.Error(err))
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	var regions []*models.Region
	for rows.Next() {
		var region models.Region
		if err := rows.Scan(&region.ID, &region.Name, &region.Code, &region.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, &region)
	}

	return regions, rows.Err()
}
