package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Fees        FeesConfig     `mapstructure:"fees"`
	Admin       AdminConfig    `mapstructure:"admin"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	LogLevel        string        `mapstructure:"logLevel"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// RedisConfig contains settings for the webhook deduplication cache
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	ClaimTTL time.Duration `mapstructure:"claimTtl"` // minutes
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// FeesConfig carries the fee schedule and deposit limits as decimal
// strings so no float conversion happens on the money path.
type FeesConfig struct {
	DepositRate     string `mapstructure:"depositRate"`
	WithdrawalRate  string `mapstructure:"withdrawalRate"`
	WithdrawalFixed string `mapstructure:"withdrawalFixed"`
	MinDeposit      string `mapstructure:"minDeposit"`
	MaxDeposit      string `mapstructure:"maxDeposit"`
}

// AdminConfig contains settings for the operator API
type AdminConfig struct {
	Secret   string        `mapstructure:"secret"`
	IDs      []int64       `mapstructure:"ids"`
	TokenTTL time.Duration `mapstructure:"tokenTtl"` // minutes
}

// LedgerConfig contains balance engine tuning
type LedgerConfig struct {
	LockTimeoutMs int64 `mapstructure:"lockTimeoutMs"`
}

// LockTimeout returns the row lock timeout as a duration
func (c LedgerConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}
