package repository

import (
	"database/sql"
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"go.uber.org/zap"
)

// CompanyRepository handles company directory database operations
type CompanyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *sql.DB, logger *zap.Logger) *CompanyRepository {
	return &CompanyRepository{
		db:     db,
		logger: logger,
	}
}

const companyColumns = `id, name, reg_number, region_id, owner_user_id, website, created_at, updated_at`

// Create inserts a new company
func (r *CompanyRepository) Create(tx *sql.Tx, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, reg_number, region_id, owner_user_id, website)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, company.ID, company.Name, company.RegNumber, company.RegionID, company.OwnerUserID, company.Website)
	} else {
		_, err = r.db.Exec(query, company.ID, company.Name, company.RegNumber, company.RegionID, company.OwnerUserID, company.Website)
	}

	if err != nil {
		r.logger.Error("Failed to create company", zap.String("name", company.Name), zap.Error(err))
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by id, returning nil when absent
func (r *CompanyRepository) GetByID(id string) (*models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies WHERE id = ?`, companyColumns)

	var company models.Company
	err := r.db.QueryRow(query, id).Scan(
		&company.ID,
		&company.Name,
		&company.RegNumber,
		&company.RegionID,
		&company.OwnerUserID,
		&company.Website,
		&company.CreatedAt,
		&company.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get company by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// Update replaces the mutable attributes of a company
func (r *CompanyRepository) Update(tx *sql.Tx, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = ?, reg_number = ?, region_id = ?, website = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, company.Name, company.RegNumber, company.RegionID, company.Website, company.ID)
	} else {
		_, err = r.db.Exec(query, company.Name, company.RegNumber, company.RegionID, company.Website, company.ID)
	}

	if err != nil {
		r.logger.Error("Failed to update company", zap.String("id", company.ID), zap.Error(err))
		return fmt.Errorf("failed to update company: %w", err)
	}

	return nil
}

// List retrieves companies with pagination, sorted by name
func (r *CompanyRepository) List(limit, offset int) ([]*models.Company, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM companies
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, companyColumns)

	return r.queryMany(query, limit, offset)
}

// SearchByName retrieves companies whose name contains the substring
func (r *CompanyRepository) SearchByName(q string, limit, offset int) ([]*models.Company, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM companies
		WHERE name LIKE ? ESCAPE '\'
		ORDER BY name ASC
		LIMIT ? OFFSET ?
	`, companyColumns)

	return r.queryMany(query, "%"+escapeLike(q)+"%", limit, offset)
}

// ListAll retrieves the full directory, used by the roster export
func (r *CompanyRepository) ListAll() ([]*models.Company, error) {
	query := fmt.Sprintf(`SELECT %s FROM companies ORDER BY name ASC`, companyColumns)
	return r.queryMany(query)
}

func (r *CompanyRepository) queryMany(query string, args ...interface{}) ([]*models.Company, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list companies", zap.Error(err))
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var company models.Company
		err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.RegNumber,
			&company.RegionID,
			&company.OwnerUserID,
			&company.Website,
			&company.CreatedAt,
			&company.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, &company)
	}

	return companies, rows.Err()
}
