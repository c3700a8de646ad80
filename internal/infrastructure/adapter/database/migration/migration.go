// Package migration creates and versions the ledger schema.
package migration

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/model"
)

// CurrentSchemaVersion represents the current database schema version
const CurrentSchemaVersion = "1.1.0"

// SchemaVersion tracks which migration version a database is at.
type SchemaVersion struct {
	ID        uint   `gorm:"primaryKey"`
	Version   string `gorm:"uniqueIndex;not null;size:50"`
	AppliedAt int64  `gorm:"autoCreateTime"`
}

// TableName specifies the table name for SchemaVersion
func (SchemaVersion) TableName() string {
	return "schema_versions"
}

// Manager manages database migrations
type Manager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewManager creates a new migration manager
func NewManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// MigrateAll brings the schema to the current version.
func (m *Manager) MigrateAll() error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return fmt.Errorf("failed to create schema version table: %w", err)
	}

	currentVersion, err := m.currentVersion()
	if err != nil {
		return err
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	if err := m.db.AutoMigrate(&model.User{}, &model.Transaction{}); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.createIndexes(); err != nil {
		return err
	}

	if err := m.db.Create(&SchemaVersion{Version: CurrentSchemaVersion}).Error; err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	m.logger.Info("Database migrations completed", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// currentVersion returns the most recently applied schema version, or an
// empty string for a fresh database.
func (m *Manager) currentVersion() (string, error) {
	var version SchemaVersion
	err := m.db.Order("id DESC").First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to check current schema version: %w", err)
	}
	return version.Version, nil
}

// createIndexes adds the query-path indexes AutoMigrate does not cover.
// The admin-note index backs the fee-for-withdrawal lookup.
func (m *Manager) createIndexes() error {
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_user_updated ON transactions (user_id, updated_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_fee_note ON transactions (admin_note) WHERE type = 'FEE'",
	}

	for _, statement := range statements {
		if err := m.db.Exec(statement).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"statement": statement,
				"error":     err.Error(),
			})
			return err
		}
	}
	return nil
}
