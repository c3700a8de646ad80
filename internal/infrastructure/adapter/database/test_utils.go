package database

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/logger"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/model"
	timeprovider "github.com/pmotterani/flexipay/internal/infrastructure/adapter/time"
)

// TestDB provides utilities for tests that need a real database. Tests
// using it are skipped unless TEST_DB_HOST is set, so the default test run
// stays self-contained.
type TestDB struct {
	Conn         *Connection
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDB connects to the throwaway test database described by the
// TEST_DB_* environment variables.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	host, ok := os.LookupEnv("TEST_DB_HOST")
	if !ok {
		t.Skip("TEST_DB_HOST not set, skipping database-backed test")
	}

	timeProvider := timeprovider.NewRealTimeProvider()
	log := logger.NewNoopLogger()

	config := &Config{
		Host:            host,
		Port:            getEnvIntOrDefault("TEST_DB_PORT", 5432),
		Username:        getEnvOrDefault("TEST_DB_USERNAME", "postgres"),
		Password:        getEnvOrDefault("TEST_DB_PASSWORD", "postgres"),
		Database:        getEnvOrDefault("TEST_DB_DATABASE", "flexipay_test"),
		SSLMode:         getEnvOrDefault("TEST_DB_SSL_MODE", "disable"),
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   0,
		RetryDelay:      time.Second,
	}

	conn, err := NewConnection(config, log, timeProvider)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	return &TestDB{
		Conn:         conn,
		Logger:       log,
		TimeProvider: timeProvider,
	}
}

// Close closes the test database connection
func (d *TestDB) Close(t *testing.T) {
	t.Helper()

	if err := d.Conn.Close(); err != nil {
		t.Logf("Warning: Failed to close test database connection: %v", err)
	}
}

// SetupSchema drops everything and recreates the ledger tables
func (d *TestDB) SetupSchema(t *testing.T) {
	t.Helper()

	db := d.Conn.DB

	if err := dropAllTables(db); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Transaction{},
	); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}
}

// dropAllTables drops all tables in the test database
func dropAllTables(db *gorm.DB) error {
	return db.Exec(`
		DO $$ DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = current_schema()) LOOP
				EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`).Error
}

// TruncateAllTables truncates all tables in the test database
func (d *TestDB) TruncateAllTables(t *testing.T) {
	t.Helper()

	if err := d.Conn.DB.Exec(`
		DO $$ DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = current_schema()) LOOP
				EXECUTE 'TRUNCATE TABLE ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`).Error; err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// CreateTestUser creates a user row with the given id and balance
func (d *TestDB) CreateTestUser(t *testing.T, id int64, balance string) {
	t.Helper()

	user := model.User{
		ID:        id,
		Username:  fmt.Sprintf("user%d", id),
		FirstName: "Test",
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: d.TimeProvider.Now(),
	}

	if err := d.Conn.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

// Helper functions to get environment variables or defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
