package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/assocdesk/membership-service/internal/models"
	"github.com/assocdesk/membership-service/internal/repository"
	"github.com/assocdesk/membership-service/pkg/database"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultRejectionReason is recorded when a reject carries no reason
const defaultRejectionReason = "No reason provided"

// TransitionPayload carries optional per-action data, recorded verbatim in
// the event log
type TransitionPayload struct {
	Note           string `json:"note,omitempty"`
	ReasonRejected string `json:"reason_rejected,omitempty"`
}

// Engine executes membership application transitions: legality via the
// transition table, role/region authorization, and an atomic state update
// plus event append.
type Engine struct {
	db          *database.DB
	appRepo     *repository.ApplicationRepository
	eventRepo   *repository.EventRepository
	companyRepo *repository.CompanyRepository
	logger      *zap.Logger
}

// NewEngine creates a new workflow engine
func NewEngine(
	db *database.DB,
	appRepo *repository.ApplicationRepository,
	eventRepo *repository.EventRepository,
	companyRepo *repository.CompanyRepository,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		db:          db,
		appRepo:     appRepo,
		eventRepo:   eventRepo,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

// CreateDraft opens a new application in DRAFT on behalf of a company. This
// is a plain creation, not a transition: the transition table is not
// consulted and no event is recorded until the first submit.
func (e *Engine) CreateDraft(ctx context.Context, actor models.Actor, companyID, formData string) (*models.MembershipApplication, error) {
	company, err := e.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company %s", ErrNotFound, companyID)
	}

	if !CanCreate(actor, company.OwnerUserID) {
		return nil, fmt.Errorf("%w: role %s may not create applications for company %s",
			ErrForbidden, actor.Role, companyID)
	}

	if formData == "" {
		formData = "{}"
	}

	app := &models.MembershipApplication{
		ID:          uuid.NewString(),
		CompanyID:   company.ID,
		SubmitterID: actor.UserID,
		RegionID:    company.RegionID,
		State:       StateDraft.String(),
		FormData:    formData,
	}

	if err := e.appRepo.Create(nil, app); err != nil {
		return nil, err
	}

	e.logger.Info("Application draft created",
		zap.String("application_id", app.ID),
		zap.String("company_id", company.ID),
		zap.String("actor_id", actor.UserID))

	return e.appRepo.GetByID(app.ID)
}

// ApplyTransition executes one transition request end-to-end. On success it
// returns the updated application; otherwise one of ErrNotFound,
// ErrForbidden, ErrInvalidTransition or a wrapped store error.
func (e *Engine) ApplyTransition(ctx context.Context, applicationID string, action Action, actor models.Actor, payload TransitionPayload) (*models.MembershipApplication, error) {
	app, err := e.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, applicationID)
	}

	// company ownership only gates submit
	var companyOwnerID string
	if action == ActionSubmit {
		company, err := e.companyRepo.GetByID(app.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load company: %w", err)
		}
		if company != nil {
			companyOwnerID = company.OwnerUserID
		}
	}

	if !CanPerform(actor, action, app.RegionID, companyOwnerID) {
		e.logger.Warn("Transition not authorized",
			zap.String("application_id", app.ID),
			zap.String("action", action.String()),
			zap.String("actor_id", actor.UserID),
			zap.String("role", actor.Role))
		return nil, fmt.Errorf("%w: role %s may not %s application %s",
			ErrForbidden, actor.Role, action, app.ID)
	}

	current := State(app.State)
	if !IsLegal(current, action) {
		return nil, fmt.Errorf("%w: action %q is not legal in state %q",
			ErrInvalidTransition, action, current)
	}

	next, ok := NextState(action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	now := time.Now().UTC()
	updated := *app
	updated.State = next.String()
	updated.UpdatedAt = now

	// submitted_at and decided_at are written once
	if action == ActionSubmit && app.SubmittedAt == nil {
		updated.SubmittedAt = &now
	}
	if next.IsTerminal() && app.DecidedAt == nil {
		updated.DecidedAt = &now
	}
	if action == ActionReject {
		reason := payload.ReasonRejected
		if reason == "" {
			reason = defaultRejectionReason
		}
		updated.ReasonRejected = &reason
	}

	metadata, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transition payload: %w", err)
	}

	err = e.db.WithTransaction(func(tx *sql.Tx) error {
		// The guarded update re-validates the state observed above at commit
		// time: a concurrent transition that won the race leaves zero rows
		// matching and the whole unit aborts with no visible change.
		affected, err := e.appRepo.UpdateStateGuarded(tx, &updated, current.String())
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("%w: application %s left state %q before commit",
				ErrInvalidTransition, app.ID, current)
		}

		event := &models.ApplicationEvent{
			ID:            uuid.NewString(),
			ApplicationID: app.ID,
			Action:        action.String(),
			ActorID:       actor.UserID,
			Metadata:      string(metadata),
			CreatedAt:     now,
		}
		return e.eventRepo.Append(tx, event)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Application transition applied",
		zap.String("application_id", app.ID),
		zap.String("action", action.String()),
		zap.String("from", current.String()),
		zap.String("to", next.String()),
		zap.String("actor_id", actor.UserID))

	// re-read after commit so the response reflects the row as stored,
	// including form edits that landed while the transition was in flight
	return e.appRepo.GetByID(app.ID)
}

// UpdateDraftForm replaces the form payload of an application that is still
// editable, i.e. in DRAFT or REQUESTED_CHANGES. The payload is opaque to the
// engine and no event is recorded; only transitions enter the audit trail.
func (e *Engine) UpdateDraftForm(ctx context.Context, applicationID string, actor models.Actor, formData string) (*models.MembershipApplication, error) {
	app, err := e.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, applicationID)
	}

	company, err := e.companyRepo.GetByID(app.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company: %w", err)
	}
	var companyOwnerID string
	if company != nil {
		companyOwnerID = company.OwnerUserID
	}

	if !CanCreate(actor, companyOwnerID) {
		return nil, fmt.Errorf("%w: role %s may not edit application %s",
			ErrForbidden, actor.Role, app.ID)
	}

	state := State(app.State)
	if state != StateDraft && state != StateRequestedChanges {
		return nil, fmt.Errorf("%w: form is not editable in state %q",
			ErrInvalidTransition, state)
	}

	if formData == "" {
		formData = "{}"
	}
	if err := e.appRepo.UpdateFormData(nil, app.ID, formData); err != nil {
		return nil, err
	}

	return e.appRepo.GetByID(app.ID)
}

// Events returns the ordered audit trail of an application, oldest first.
// The actor's read scope applies: the trail is part of reading the application.
func (e *Engine) Events(ctx context.Context, applicationID string, actor models.Actor) ([]*models.ApplicationEvent, error) {
	app, err := e.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, applicationID)
	}

	var companyOwnerID string
	if actor.Role == models.RoleCompanyRep {
		company, err := e.companyRepo.GetByID(app.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load company: %w", err)
		}
		if company != nil {
			companyOwnerID = company.OwnerUserID
		}
	}

	if !CanRead(actor, app.RegionID, companyOwnerID) {
		return nil, fmt.Errorf("%w: role %s may not read application %s",
			ErrForbidden, actor.Role, app.ID)
	}

	return e.eventRepo.ListByApplicationID(applicationID)
}

// Get returns one application, applying the actor's read scope
func (e *Engine) Get(ctx context.Context, applicationID string, actor models.Actor) (*models.MembershipApplication, error) {
	app, err := e.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, applicationID)
	}

	var companyOwnerID string
	if actor.Role == models.RoleCompanyRep {
		company, err := e.companyRepo.GetByID(app.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load company: %w", err)
		}
		if company != nil {
			companyOwnerID = company.OwnerUserID
		}
	}

	if !CanRead(actor, app.RegionID, companyOwnerID) {
		return nil, fmt.Errorf("%w: role %s may not read application %s",
			ErrForbidden, actor.Role, app.ID)
	}
	return app, nil
}

// List returns the applications visible to the actor: everything for admin
// and national secretariat, the own region for regional secretariat, and
// owned companies' applications for company representatives.
func (e *Engine) List(ctx context.Context, actor models.Actor, limit, offset int) ([]*models.MembershipApplication, error) {
	switch actor.Role {
	case models.RoleAdmin, models.RoleNationalSecretariat:
		return e.appRepo.List(limit, offset)
	case models.RoleRegionalSecretariat:
		if actor.RegionID == nil {
			return nil, fmt.Errorf("%w: regional secretariat without region affiliation", ErrForbidden)
		}
		return e.appRepo.ListByRegion(*actor.RegionID, limit, offset)
	case models.RoleCompanyRep:
		return e.appRepo.ListByCompanyOwner(actor.UserID, limit, offset)
	}
	return nil, fmt.Errorf("%w: unknown role %s", ErrForbidden, actor.Role)
}
