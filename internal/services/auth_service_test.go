// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	registered, err := service.Register(&RegisterRequest{
		Username: "newagent",
		Email:    "newagent@estate.local",
		Password: "SuperSecret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.UserRoleAgent, registered.User.Role)

	claims, err := utils.ValidateJWT(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID.String(), claims.UserID)
	assert.Equal(t, "newagent", claims.Username)

	logged, err := service.Login(&LoginRequest{
		Email:    "newagent@estate.local",
		Password: "SuperSecret1",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)

	_, err = service.Login(&LoginRequest{
		Email:    "newagent@estate.local",
		Password: "wrong-password",
	})
	assert.EqualError(t, err, "invalid credentials")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	service := NewAuthService(db, testConfig())

	_, err := service.Register(&RegisterRequest{
		Username: "agent1",
		Email:    "agent1@estate.local",
		Password: "SuperSecret1",
	})
	require.NoError(t, err)

	_, err = service.Register(&RegisterRequest{
		Username: "agent2",
		Email:    "agent1@estate.local",
		Password: "SuperSecret1",
	})
	assert.EqualError(t, err, "user with this email or username already exists")
}
