// Package config provides configuration management for formgate.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like DATABASE_URL, SERVER_PORT)
// 3. Default values
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the root configuration structure.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Log          LogConfig          `mapstructure:"log"`
	River        RiverConfig        `mapstructure:"river"`
	Worker       WorkerConfig       `mapstructure:"worker"`
	Security     SecurityConfig     `mapstructure:"security"`
	Gatekeeper   GatekeeperConfig   `mapstructure:"gatekeeper"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins lists site origins allowed to call the form endpoints.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings.
// One shared pgxpool serves the audit store and River.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`

	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
// Priority: DATABASE_URL > constructed from individual fields.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslmode,
	)
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// RiverConfig contains River Queue settings.
type RiverConfig struct {
	MaxWorkers                  int           `mapstructure:"max_workers"`
	CompletedJobRetentionPeriod time.Duration `mapstructure:"completed_job_retention_period"`
}

// WorkerConfig contains worker pool settings.
type WorkerConfig struct {
	GeneralPoolSize int `mapstructure:"general_pool_size"`
	AuditPoolSize   int `mapstructure:"audit_pool_size"`
}

// SecurityConfig contains security-related settings.
// The admin token is auto-generated on first boot if missing.
type SecurityConfig struct {
	AdminToken string `mapstructure:"admin_token"`
}

// RateLimitPolicy parametrizes one sliding-window rate limiter instance.
type RateLimitPolicy struct {
	MaxSubmissions int           `mapstructure:"max_submissions"`
	Window         time.Duration `mapstructure:"window"`
}

// GatekeeperConfig contains submission gatekeeper thresholds.
type GatekeeperConfig struct {
	// ContactRate and PortfolioRate are two independent policies, not one
	// shared instance.
	ContactRate   RateLimitPolicy `mapstructure:"contact_rate"`
	PortfolioRate RateLimitPolicy `mapstructure:"portfolio_rate"`

	// MinFillSeconds is the anti-bot timing floor; submissions filled in
	// strictly less time are rejected.
	MinFillSeconds float64 `mapstructure:"min_fill_seconds"`

	// MaxFieldLen caps each trimmed form field.
	MaxFieldLen int `mapstructure:"max_field_len"`

	// AuditRetention bounds how long blocked/spam audit rows are kept.
	AuditRetention time.Duration `mapstructure:"audit_retention"`
}

// NotificationConfig contains outbound email settings (Resend API).
type NotificationConfig struct {
	ResendAPIKey     string `mapstructure:"resend_api_key"`
	FromEmail        string `mapstructure:"from_email"`
	NotifyEmail      string `mapstructure:"notify_email"`
	PortfolioPDFPath string `mapstructure:"portfolio_pdf_path"`
}

var (
	bootstrapLoggerOnce sync.Once
	bootstrapLogger     *zap.Logger
)

// Load reads configuration from file and environment variables.
// Standard environment variables without prefix (DATABASE_URL, SERVER_PORT, etc.).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/formgate")

	// Environment variable override.
	// No prefix: uses standard names like DATABASE_URL, SERVER_PORT, LOG_LEVEL
	// Maps nested config: gatekeeper.min_fill_seconds → GATEKEEPER_MIN_FILL_SECONDS
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.ensureSecrets(); err != nil {
		return nil, fmt.Errorf("ensure secrets: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Security.AdminToken == "" {
		return fmt.Errorf("security.admin_token must not be empty")
	}
	if len(c.Security.AdminToken) < 32 {
		return fmt.Errorf("security.admin_token must be at least 32 characters")
	}
	if c.Gatekeeper.ContactRate.MaxSubmissions < 1 || c.Gatekeeper.ContactRate.Window <= 0 {
		return fmt.Errorf("gatekeeper.contact_rate must allow at least 1 submission in a positive window")
	}
	if c.Gatekeeper.PortfolioRate.MaxSubmissions < 1 || c.Gatekeeper.PortfolioRate.Window <= 0 {
		return fmt.Errorf("gatekeeper.portfolio_rate must allow at least 1 submission in a positive window")
	}
	if c.Gatekeeper.MinFillSeconds < 0 {
		return fmt.Errorf("gatekeeper.min_fill_seconds must not be negative")
	}
	return nil
}

// ensureSecrets auto-generates missing secrets on first boot.
func (c *Config) ensureSecrets() error {
	if c.Security.AdminToken == "" {
		token, err := generateSecureRandomHex(32)
		if err != nil {
			return fmt.Errorf("auto-generate admin token: %w", err)
		}
		c.Security.AdminToken = token
		logBootstrapWarn(
			"auto-generated admin_token; set SECURITY_ADMIN_TOKEN env var for persistence",
			zap.Int("length", len(token)),
		)
	}
	return nil
}

func logBootstrapWarn(msg string, fields ...zap.Field) {
	bootstrapLoggerOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

		l, err := cfg.Build()
		if err != nil {
			bootstrapLogger = zap.NewNop()
			return
		}
		bootstrapLogger = l
	})

	bootstrapLogger.Warn(msg, fields...)
}

// generateSecureRandomHex produces a hex-encoded string of n random bytes.
func generateSecureRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("crypto/rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"https://maraisroos.co.za"})

	// Database (shared pool: audit store + River)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "formgate")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "formgate")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "10m")
	v.SetDefault("database.auto_migrate", false)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// River
	v.SetDefault("river.max_workers", 5)
	v.SetDefault("river.completed_job_retention_period", "24h")

	// Worker pools
	v.SetDefault("worker.general_pool_size", 50)
	v.SetDefault("worker.audit_pool_size", 10)

	// Gatekeeper: contact form 3/hour, portfolio requests 2/24h.
	v.SetDefault("gatekeeper.contact_rate.max_submissions", 3)
	v.SetDefault("gatekeeper.contact_rate.window", "1h")
	v.SetDefault("gatekeeper.portfolio_rate.max_submissions", 2)
	v.SetDefault("gatekeeper.portfolio_rate.window", "24h")
	v.SetDefault("gatekeeper.min_fill_seconds", 3.0)
	v.SetDefault("gatekeeper.max_field_len", 5000)
	v.SetDefault("gatekeeper.audit_retention", "2160h") // 90 days

	// Notification (Resend)
	v.SetDefault("notification.from_email", "onboarding@resend.dev")
	v.SetDefault("notification.portfolio_pdf_path", "./assets/portfolio.pdf")
}
