package workflow

import "github.com/assocdesk/membership-service/internal/models"

// CanPerform decides whether the actor may fire the action against an
// application in the given region. companyOwnerID is the owning user of the
// application's company and only matters for submit. Pure, no I/O.
func CanPerform(actor models.Actor, action Action, applicationRegionID, companyOwnerID string) bool {
	switch action {
	case ActionSubmit:
		if actor.Role == models.RoleAdmin {
			return true
		}
		return actor.Role == models.RoleCompanyRep && actor.UserID == companyOwnerID

	case ActionRequestInfo, ActionRegionApprove, ActionReject:
		switch actor.Role {
		case models.RoleAdmin, models.RoleNationalSecretariat:
			return true
		case models.RoleRegionalSecretariat:
			// regional secretaries only act within their own region
			return actor.RegionID != nil && *actor.RegionID == applicationRegionID
		}
		return false

	case ActionNationalApprove:
		return actor.Role == models.RoleAdmin || actor.Role == models.RoleNationalSecretariat
	}

	return false
}

// CanCreate decides whether the actor may open a draft application on behalf
// of the company owned by companyOwnerID
func CanCreate(actor models.Actor, companyOwnerID string) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleCompanyRep && actor.UserID == companyOwnerID
}

// CanRead decides whether the actor may read an application
func CanRead(actor models.Actor, applicationRegionID, companyOwnerID string) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleNationalSecretariat:
		return true
	case models.RoleRegionalSecretariat:
		return actor.RegionID != nil && *actor.RegionID == applicationRegionID
	case models.RoleCompanyRep:
		return actor.UserID == companyOwnerID
	}
	return false
}
