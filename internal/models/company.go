package models

import "time"

// Company represents a member (or applicant) company in the directory
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RegNumber   string    `json:"reg_number"`
	RegionID    string    `json:"region_id"`
	OwnerUserID string    `json:"owner_user_id"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Region represents a regional chapter of the association
type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}
