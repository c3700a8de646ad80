package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
)

// Connection holds the database handle and its configuration. The ledger
// store being unreachable is fatal at startup, so NewConnection retries a
// few times and then gives up.
type Connection struct {
	DB     *gorm.DB
	Config *Config
	logger coreport.Logger
}

// NewConnection establishes a new database connection with the given configuration
func NewConnection(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) (*Connection, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(config.LogLevel)),
		NowFunc: func() time.Time {
			return timeProvider.Now()
		},
	}

	var db *gorm.DB
	var err error
	for attempt := 0; attempt <= config.RetryAttempts; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt,
				"of":      config.RetryAttempts,
				"delay":   config.RetryDelay.String(),
			})
			time.Sleep(config.RetryDelay)
		}

		db, err = gorm.Open(postgres.Open(config.DSN()), gormConfig)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database", map[string]any{
		"host": config.Host,
		"port": config.Port,
		"name": config.Database,
	})

	return &Connection{
		DB:     db,
		Config: config,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}
