// internal/services/service_test_helpers_test.go
package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homestead/estate-backend/internal/config"
	"github.com/homestead/estate-backend/internal/models"
	"github.com/homestead/estate-backend/internal/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh connection would get a fresh empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.PropertyType{},
		&models.Tag{},
		&models.Property{},
		&models.Offer{},
		&models.Invoice{},
		&models.InvoiceLine{},
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
		Estate: config.EstateConfig{
			CommissionPercent:  6.0,
			AdministrativeFees: 100.0,
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@estate.local",
		Role:     models.UserRoleAgent,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123!"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func listParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "asc"}
}

func createTestPartner(t *testing.T, db *gorm.DB, name string) *models.Partner {
	t.Helper()

	partner := &models.Partner{Name: name}
	require.NoError(t, db.Create(partner).Error)
	return partner
}
