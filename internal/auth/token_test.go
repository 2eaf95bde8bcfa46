package auth

import (
	"testing"
	"time"

	"github.com/assocdesk/membership-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_IssueAndValidate(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	regionID := "r-north"
	user := &models.User{
		ID:       "u-1",
		Role:     models.RoleRegionalSecretariat,
		RegionID: &regionID,
	}

	token, err := manager.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", actor.UserID)
	assert.Equal(t, models.RoleRegionalSecretariat, actor.Role)
	require.NotNil(t, actor.RegionID)
	assert.Equal(t, regionID, *actor.RegionID)
}

func TestTokenManager_Validate_NoRegion(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	token, err := manager.Issue(&models.User{ID: "u-2", Role: models.RoleNationalSecretariat})
	require.NoError(t, err)

	actor, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Nil(t, actor.RegionID)
}

func TestTokenManager_Validate_WrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour)
	verifier := NewTokenManager("another-secret-another-secret!!!", time.Hour)

	token, err := issuer.Issue(&models.User{ID: "u-3", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_Validate_Expired(t *testing.T) {
	manager := NewTokenManager(testSecret, -time.Minute)

	token, err := manager.Issue(&models.User{ID: "u-4", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_Validate_Garbage(t *testing.T) {
	manager := NewTokenManager(testSecret, time.Hour)

	_, err := manager.Validate("not-a-token")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)
}
