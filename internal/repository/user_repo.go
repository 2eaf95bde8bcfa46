package repository

import (
	"database/sql"
	"fmt"

	"github.com/assocdesk/membership-service/internal/models"
	"go.uber.org/zap"
)

// UserRepository handles user account database operations
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user
func (r *UserRepository) Create(tx *sql.Tx, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, role, region_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.RegionID)
	} else {
		_, err = r.db.Exec(query, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.RegionID)
	}

	if err != nil {
		r.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id, returning nil when absent
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	return r.getBy("id", id)
}

// GetByEmail retrieves a user by email, returning nil when absent
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email", email)
}

func (r *UserRepository) getBy(column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, name, password_hash, role, region_id, created_at
		FROM users
		WHERE %s = ?
	`, column)

	var user models.User
	var regionID sql.NullString

	err := r.db.QueryRow(query, value).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&regionID,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.String(column, value), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if regionID.Valid {
		user.RegionID = &regionID.String
	}

	return &user, nil
}
