package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/assocdesk/membership-service/internal/auth"
	"github.com/assocdesk/membership-service/internal/export"
	"github.com/assocdesk/membership-service/internal/metrics"
	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/internal/repository"
	"github.com/assocdesk/membership-service/internal/workflow"
	"github.com/assocdesk/membership-service/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenManager

	region   *models.Region
	owner    *models.User
	otherRep *models.User
	regSec   *models.User
	natSec   *models.User
	company  *models.Company
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
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

	appRepo := repository.NewApplicationRepository(db.DB, logger)
	eventRepo := repository.NewEventRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	companyRepo := repository.NewCompanyRepository(db.DB, logger)
	regionRepo := repository.NewRegionRepository(db.DB, logger)
	contentRepo := repository.NewContentRepository(db.DB, logger)

	engine := workflow.NewEngine(db, appRepo, eventRepo, companyRepo, logger)
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)
	m := metrics.New()
	roster := export.NewRosterWriter(logger)

	router := NewRouter(Handlers{
		Auth:        NewAuthHandler(userRepo, tokens, logger),
		Application: NewApplicationHandler(engine, m, logger),
		Company:     NewCompanyHandler(companyRepo, regionRepo, roster, logger),
		Content:     NewContentHandler(contentRepo, logger),
		Region:      NewRegionHandler(regionRepo, logger),
	}, tokens, m, logger)

	s := &testServer{router: router, tokens: tokens}

	s.region = &models.Region{ID: uuid.NewString(), Name: "North", Code: "N"}
	require.NoError(t, regionRepo.Create(nil, s.region))

	newUser := func(role string, regionID *string) *models.User {
		user := &models.User{
			ID:           uuid.NewString(),
			Email:        uuid.NewString() + "@example.com",
			Name:         role,
			PasswordHash: "x",
			Role:         role,
			RegionID:     regionID,
		}
		require.NoError(t, userRepo.Create(nil, user))
		return user
	}

	s.owner = newUser(models.RoleCompanyRep, nil)
	s.otherRep = newUser(models.RoleCompanyRep, nil)
	s.regSec = newUser(models.RoleRegionalSecretariat, &s.region.ID)
	s.natSec = newUser(models.RoleNationalSecretariat, nil)

	s.company = &models.Company{
		ID:          uuid.NewString(),
		Name:        "Northern Tooling AB",
		RegNumber:   "55612345",
		RegionID:    s.region.ID,
		OwnerUserID: s.owner.ID,
	}
	require.NoError(t, companyRepo.Create(nil, s.company))

	return s
}

func (s *testServer) do(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		token, err := s.tokens.Issue(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplicationEndpoints_Unauthenticated(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/applications", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/applications", s.owner,
		gin.H{"company_id": s.company.ID, "form_data": `{"employees": 10}`})
	require.Equal(t, http.StatusCreated, w.Code)

	var app models.MembershipApplication
	decode(t, w, &app)
	assert.Equal(t, "DRAFT", app.State)

	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/submit", s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &app)
	assert.Equal(t, "SUBMITTED", app.State)

	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/region-approve", s.regSec, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &app)
	assert.Equal(t, "NATIONAL_REVIEW", app.State)

	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/national-approve", s.natSec, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &app)
	assert.Equal(t, "APPROVED", app.State)
	assert.NotNil(t, app.DecidedAt)

	w = s.do(t, http.MethodGet, "/api/v1/applications/"+app.ID+"/events", s.natSec, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var eventsResp struct {
		Events []models.ApplicationEvent `json:"events"`
	}
	decode(t, w, &eventsResp)
	require.Len(t, eventsResp.Events, 3)
	assert.Equal(t, "submit", eventsResp.Events[0].Action)
	assert.Equal(t, "national_approve", eventsResp.Events[2].Action)

	// the audit trail is not visible to unrelated representatives
	w = s.do(t, http.MethodGet, "/api/v1/applications/"+app.ID+"/events", s.otherRep, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTransitionErrorStatuses(t *testing.T) {
	s := newTestServer(t)

	// 404: unknown application
	w := s.do(t, http.MethodPost, "/api/v1/applications/"+uuid.NewString()+"/submit", s.owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/applications", s.owner, gin.H{"company_id": s.company.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var app models.MembershipApplication
	decode(t, w, &app)

	// 403: secretariat may not submit on the company's behalf
	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/submit", s.regSec, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 409: region_approve is not legal from DRAFT
	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/region-approve", s.natSec, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRejectCarriesReason(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/applications", s.owner, gin.H{"company_id": s.company.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var app models.MembershipApplication
	decode(t, w, &app)

	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/submit", s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/reject", s.regSec,
		gin.H{"reason_rejected": "Incomplete documents"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &app)
	assert.Equal(t, "REJECTED", app.State)
	require.NotNil(t, app.ReasonRejected)
	assert.Equal(t, "Incomplete documents", *app.ReasonRejected)
}

func TestListScopedByRole(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/applications", s.owner, gin.H{"company_id": s.company.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	var listResp struct {
		Applications []models.MembershipApplication `json:"applications"`
	}

	w = s.do(t, http.MethodGet, "/api/v1/applications", s.natSec, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listResp)
	assert.Len(t, listResp.Applications, 1)

	w = s.do(t, http.MethodGet, "/api/v1/applications", s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listResp)
	assert.Len(t, listResp.Applications, 1)
}

func TestUpdateFormOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/applications", s.owner, gin.H{"company_id": s.company.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var app models.MembershipApplication
	decode(t, w, &app)

	w = s.do(t, http.MethodPut, "/api/v1/applications/"+app.ID, s.owner,
		gin.H{"form_data": `{"employees": 25}`})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &app)
	assert.Equal(t, `{"employees": 25}`, app.FormData)

	w = s.do(t, http.MethodPost, "/api/v1/applications/"+app.ID+"/submit", s.owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// submitted applications are no longer editable
	w = s.do(t, http.MethodPut, "/api/v1/applications/"+app.ID, s.owner,
		gin.H{"form_data": "{}"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", nil, gin.H{
		"email":    "new.rep@example.com",
		"password": "a long password",
		"name":     "New Rep",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// duplicate email
	w = s.do(t, http.MethodPost, "/api/v1/auth/register", nil, gin.H{
		"email":    "new.rep@example.com",
		"password": "a long password",
		"name":     "New Rep",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// admin role is not self-assignable
	w = s.do(t, http.MethodPost, "/api/v1/auth/register", nil, gin.H{
		"email":    "boss@example.com",
		"password": "a long password",
		"name":     "Boss",
		"role":     models.RoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", nil, gin.H{
		"email":    "new.rep@example.com",
		"password": "a long password",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp struct {
		Token string `json:"token"`
	}
	decode(t, w, &loginResp)
	require.NotEmpty(t, loginResp.Token)

	actor, err := s.tokens.Validate(loginResp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCompanyRep, actor.Role)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", nil, gin.H{
		"email":    "new.rep@example.com",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompanyExport(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/companies/export", s.natSec, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "company-roster.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestContentEndpoints_EditorGate(t *testing.T) {
	s := newTestServer(t)

	body := gin.H{"title": "Annual report published", "body": "See the attached summary."}

	w := s.do(t, http.MethodPost, "/api/v1/news", s.owner, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/news", s.natSec, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/news", s.owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
