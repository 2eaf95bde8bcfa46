package workflow

import (
	"testing"

	"github.com/assocdesk/membership-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCanPerform_Submit(t *testing.T) {
	tests := []struct {
		name    string
		actor   models.Actor
		ownerID string
		want    bool
	}{
		{
			name:    "owning company rep may submit",
			actor:   models.Actor{UserID: "u1", Role: models.RoleCompanyRep},
			ownerID: "u1",
			want:    true,
		},
		{
			name:    "non-owning company rep may not submit",
			actor:   models.Actor{UserID: "u2", Role: models.RoleCompanyRep},
			ownerID: "u1",
			want:    false,
		},
		{
			name:    "admin may submit for any company",
			actor:   models.Actor{UserID: "u3", Role: models.RoleAdmin},
			ownerID: "u1",
			want:    true,
		},
		{
			name:    "national secretariat may not submit",
			actor:   models.Actor{UserID: "u4", Role: models.RoleNationalSecretariat},
			ownerID: "u1",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanPerform(tt.actor, ActionSubmit, "r1", tt.ownerID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanPerform_RegionalActions(t *testing.T) {
	regionalActions := []Action{ActionRequestInfo, ActionRegionApprove, ActionReject}

	tests := []struct {
		name  string
		actor models.Actor
		want  bool
	}{
		{
			name:  "regional secretariat of matching region",
			actor: models.Actor{UserID: "u1", Role: models.RoleRegionalSecretariat, RegionID: strPtr("r1")},
			want:  true,
		},
		{
			name:  "regional secretariat of different region",
			actor: models.Actor{UserID: "u1", Role: models.RoleRegionalSecretariat, RegionID: strPtr("r2")},
			want:  false,
		},
		{
			name:  "regional secretariat without region affiliation",
			actor: models.Actor{UserID: "u1", Role: models.RoleRegionalSecretariat},
			want:  false,
		},
		{
			name:  "national secretariat is unscoped",
			actor: models.Actor{UserID: "u2", Role: models.RoleNationalSecretariat},
			want:  true,
		},
		{
			name:  "admin is unscoped",
			actor: models.Actor{UserID: "u3", Role: models.RoleAdmin},
			want:  true,
		},
		{
			name:  "company rep may not review",
			actor: models.Actor{UserID: "u4", Role: models.RoleCompanyRep},
			want:  false,
		},
	}

	for _, action := range regionalActions {
		for _, tt := range tests {
			t.Run(string(action)+"/"+tt.name, func(t *testing.T) {
				got := CanPerform(tt.actor, action, "r1", "")
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestCanPerform_NationalApprove(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
		want  bool
	}{
		{"national secretariat", models.Actor{UserID: "u1", Role: models.RoleNationalSecretariat}, true},
		{"admin", models.Actor{UserID: "u2", Role: models.RoleAdmin}, true},
		{"regional secretariat of matching region", models.Actor{UserID: "u3", Role: models.RoleRegionalSecretariat, RegionID: strPtr("r1")}, false},
		{"company rep", models.Actor{UserID: "u4", Role: models.RoleCompanyRep}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanPerform(tt.actor, ActionNationalApprove, "r1", "")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanPerform_UnknownAction(t *testing.T) {
	actor := models.Actor{UserID: "u1", Role: models.RoleAdmin}
	assert.False(t, CanPerform(actor, Action("archive"), "r1", ""))
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(models.Actor{UserID: "u1", Role: models.RoleCompanyRep}, "u1"))
	assert.False(t, CanCreate(models.Actor{UserID: "u2", Role: models.RoleCompanyRep}, "u1"))
	assert.True(t, CanCreate(models.Actor{UserID: "u3", Role: models.RoleAdmin}, "u1"))
	assert.False(t, CanCreate(models.Actor{UserID: "u4", Role: models.RoleNationalSecretariat}, "u1"))
}

func TestCanRead(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
		want  bool
	}{
		{"admin reads everything", models.Actor{UserID: "u1", Role: models.RoleAdmin}, true},
		{"national secretariat reads everything", models.Actor{UserID: "u2", Role: models.RoleNationalSecretariat}, true},
		{"regional secretariat reads own region", models.Actor{UserID: "u3", Role: models.RoleRegionalSecretariat, RegionID: strPtr("r1")}, true},
		{"regional secretariat blocked on other region", models.Actor{UserID: "u3", Role: models.RoleRegionalSecretariat, RegionID: strPtr("r2")}, false},
		{"owning rep reads own application", models.Actor{UserID: "owner", Role: models.RoleCompanyRep}, true},
		{"other rep blocked", models.Actor{UserID: "u5", Role: models.RoleCompanyRep}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanRead(tt.actor, "r1", "owner")
			assert.Equal(t, tt.want, got)
		})
	}
}
