package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
	"../../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("FP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env

	processDurations(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.logLevel", "error")
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.claimTtl", 60) // minutes

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	// Fee schedule and deposit limits, decimal strings
	v.SetDefault("fees.depositRate", "0.11")
	v.SetDefault("fees.withdrawalRate", "0.025")
	v.SetDefault("fees.withdrawalFixed", "3.50")
	v.SetDefault("fees.minDeposit", "7.50")
	v.SetDefault("fees.maxDeposit", "1000.00")

	v.SetDefault("admin.tokenTtl", 60) // minutes

	v.SetDefault("ledger.lockTimeoutMs", 5000)
}

// getEnvironment determines the environment to use based on FP_ENV
func getEnvironment() string {
	env := os.Getenv("FP_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values
func processEnvOverrides(v *viper.Viper) {
	// Database sensitive information
	if dbHost := os.Getenv("FP_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := getEnvInt("FP_DB_PORT", 0); dbPort > 0 {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("FP_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("FP_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("FP_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("FP_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}

	// Redis
	if redisAddr := os.Getenv("FP_REDIS_ADDR"); redisAddr != "" {
		v.Set("redis.enabled", true)
		v.Set("redis.addr", redisAddr)
	}
	if redisPass := os.Getenv("FP_REDIS_PASSWORD"); redisPass != "" {
		v.Set("redis.password", redisPass)
	}

	// Server settings
	if serverHost := os.Getenv("FP_SERVER_HOST"); serverHost != "" {
		v.Set("server.host", serverHost)
	}
	if serverPort := getEnvInt("FP_SERVER_PORT", 0); serverPort > 0 {
		v.Set("server.port", serverPort)
	}

	// Logger settings
	if logLevel := os.Getenv("FP_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}

	// Fee schedule
	if depositRate := os.Getenv("FP_FEES_DEPOSIT_RATE"); depositRate != "" {
		v.Set("fees.depositRate", depositRate)
	}
	if withdrawalRate := os.Getenv("FP_FEES_WITHDRAWAL_RATE"); withdrawalRate != "" {
		v.Set("fees.withdrawalRate", withdrawalRate)
	}
	if withdrawalFixed := os.Getenv("FP_FEES_WITHDRAWAL_FIXED"); withdrawalFixed != "" {
		v.Set("fees.withdrawalFixed", withdrawalFixed)
	}
	if minDeposit := os.Getenv("FP_FEES_MIN_DEPOSIT"); minDeposit != "" {
		v.Set("fees.minDeposit", minDeposit)
	}
	if maxDeposit := os.Getenv("FP_FEES_MAX_DEPOSIT"); maxDeposit != "" {
		v.Set("fees.maxDeposit", maxDeposit)
	}

	// Admin API
	if adminSecret := os.Getenv("FP_ADMIN_SECRET"); adminSecret != "" {
		v.Set("admin.secret", adminSecret)
	}
	if adminIDs := os.Getenv("FP_ADMIN_IDS"); adminIDs != "" {
		v.Set("admin.ids", parseIDList(adminIDs))
	}

	// Ledger settings
	if lockTimeout := getEnvInt("FP_LEDGER_LOCK_TIMEOUT_MS", 0); lockTimeout > 0 {
		v.Set("ledger.lockTimeoutMs", lockTimeout)
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// parseIDList parses a comma-separated list of operator ids
func parseIDList(raw string) []int64 {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Redis.ClaimTTL = time.Duration(config.Redis.ClaimTTL) * time.Minute
	config.Admin.TokenTTL = time.Duration(config.Admin.TokenTTL) * time.Minute
}

// validate rejects configurations the application cannot safely start with
func validate(config *Config) error {
	if config.Admin.Secret == "" && config.Environment == Production {
		return errors.New("admin secret is required in production")
	}
	if config.Ledger.LockTimeoutMs <= 0 {
		return fmt.Errorf("ledger lock timeout must be positive, got: %d", config.Ledger.LockTimeoutMs)
	}
	return nil
}
