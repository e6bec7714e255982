// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homestead/estate-backend/internal/config"
	"github.com/homestead/estate-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Partner{},
		&models.PropertyType{},
		&models.Tag{},
		&models.Property{},
		&models.Offer{},
		&models.Invoice{},
		&models.InvoiceLine{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_properties_state_active ON properties(state, active)",
		"CREATE INDEX IF NOT EXISTS idx_properties_salesman ON properties(salesman_id)",
		"CREATE INDEX IF NOT EXISTS idx_properties_type ON properties(property_type_id)",
		"CREATE INDEX IF NOT EXISTS idx_properties_expected_price ON properties(expected_price)",
		"CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_offers_property_price ON offers(property_id, price DESC)",
		"CREATE INDEX IF NOT EXISTS idx_offers_buyer ON offers(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_offers_status ON offers(status)",

		"CREATE INDEX IF NOT EXISTS idx_invoices_partner ON invoices(partner_id)",

		"CREATE INDEX IF NOT EXISTS idx_properties_search ON properties USING GIN(to_tsvector('english', name || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	logrus.Info("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@estate.local",
			Role:     models.UserRoleAdmin,
			Status:   models.UserStatusActive,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logrus.Info("Default admin user created")
	}

	defaultTypes := []string{"House", "Apartment", "Penthouse", "Castle"}
	for i, name := range defaultTypes {
		var count int64
		db.Model(&models.PropertyType{}).Where("name = ?", name).Count(&count)

		if count == 0 {
			propertyType := &models.PropertyType{Name: name, Sequence: (i + 1) * 10}
			if err := db.Create(propertyType).Error; err != nil {
				logrus.WithError(err).Warnf("Failed to seed property type %s", name)
			}
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
