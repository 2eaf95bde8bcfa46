package models

import "time"

// MembershipApplication represents a company's application for association membership
type MembershipApplication struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"company_id"`
	SubmitterID    string     `json:"submitter_id"`
	RegionID       string     `json:"region_id"`
	State          string     `json:"state"` // DRAFT, SUBMITTED, REGION_REVIEW, REQUESTED_CHANGES, NATIONAL_REVIEW, APPROVED, REJECTED
	ReasonRejected *string    `json:"reason_rejected,omitempty"`
	FormData       string     `json:"form_data"` // JSON blob, carried but never interpreted by the engine
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ApplicationEvent is one immutable audit record of an executed transition
type ApplicationEvent struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	Action        string    `json:"action"`
	ActorID       string    `json:"actor_id"`
	Metadata      string    `json:"metadata"` // JSON blob (note, rejection reason, ...)
	CreatedAt     time.Time `json:"created_at"`
}
