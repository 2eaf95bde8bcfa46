package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixtures shared by the repository tests: one region, one user, one company
type fixtures struct {
	db      *database.DB
	region  *models.Region
	user    *models.User
	company *models.Company
}

func setupDB(t *testing.T) *fixtures {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations("../../migrations"))

	f := &fixtures{db: db}

	f.region = &models.Region{ID: uuid.NewString(), Name: "West", Code: "W"}
	require.NoError(t, NewRegionRepository(db.DB, logger).Create(nil, f.region))

	f.user = &models.User{
		ID:           uuid.NewString(),
		Email:        "rep@example.com",
		Name:         "Rep",
		PasswordHash: "x",
		Role:         models.RoleCompanyRep,
	}
	require.NoError(t, NewUserRepository(db.DB, logger).Create(nil, f.user))

	f.company = &models.Company{
		ID:          uuid.NewString(),
		Name:        "Western Freight AB",
		RegNumber:   "55698765",
		RegionID:    f.region.ID,
		OwnerUserID: f.user.ID,
	}
	require.NoError(t, NewCompanyRepository(db.DB, logger).Create(nil, f.company))

	return f
}

func (f *fixtures) newApplication(t *testing.T, repo *ApplicationRepository, state string) *models.MembershipApplication {
	t.Helper()
	app := &models.MembershipApplication{
		ID:          uuid.NewString(),
		CompanyID:   f.company.ID,
		SubmitterID: f.user.ID,
		RegionID:    f.region.ID,
		State:       state,
		FormData:    "{}",
	}
	require.NoError(t, repo.Create(nil, app))
	return app
}
