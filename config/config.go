package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// MinJWTSecretLength is the shortest signing secret the server accepts
const MinJWTSecretLength = 16

// dbURLPlaceholders are fragments left behind by copied example connection
// strings. A host literally named HOST is checked separately.
var dbURLPlaceholders = []string{"__PASSWORD__", "__HOST__", "YOUR_", "password@localhost"}

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	RateLimit     RateLimitConfig
	Broker        BrokerConfig
	CORS          CORSConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL
	Driver           string // "postgres" (lib/pq) or "pgx"
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	AutoMigrate      bool
}

// AuthConfig holds token signing and password hashing settings
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	BcryptCost int

	// AllowAdminSignup lets POST /api/auth/register create ADMIN accounts.
	// Off unless ALLOW_ADMIN_SIGNUP is set.
	AllowAdminSignup bool
}

// RateLimitConfig bounds failed login attempts
type RateLimitConfig struct {
	Enabled                bool
	LoginAttemptsPerMinute int
	LoginAttemptsPerHour   int
	Retention              time.Duration
	CleanupInterval        time.Duration
}

// BrokerConfig holds the event broker settings. An empty RabbitURL keeps
// event delivery in-process.
type BrokerConfig struct {
	RabbitURL   string
	Exchange    string
	NotifyQueue string
}

// CORSConfig holds the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	ServiceName       string
	LogLevel          string
	LogFormat         string // json or console
	TracingEnabled    bool
	TracingEndpoint   string
	TracingInsecure   bool
	TracingSampleRate float64
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second),
		},
		Database: DatabaseConfig{
			ConnectionString: strings.TrimSpace(getEnv("DATABASE_URL", "")),
			Driver:           getEnv("DB_DRIVER", "postgres"),
			MaxOpenConns:     getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:     getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime:  getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:      getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			TokenTTL:   getEnvAsDuration("JWT_TTL", 7*24*time.Hour),
			Issuer:     getEnv("JWT_ISSUER", "home-queen"),
			BcryptCost: getEnvAsInt("BCRYPT_COST", 10),

			AllowAdminSignup: getEnvAsBool("ALLOW_ADMIN_SIGNUP", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:                getEnvAsBool("RATE_LIMIT_ENABLED", true),
			LoginAttemptsPerMinute: getEnvAsInt("LOGIN_ATTEMPTS_PER_MINUTE", 10),
			LoginAttemptsPerHour:   getEnvAsInt("LOGIN_ATTEMPTS_PER_HOUR", 50),
			Retention:              getEnvAsDuration("LOGIN_ATTEMPTS_RETENTION", 24*time.Hour),
			CleanupInterval:        getEnvAsDuration("LOGIN_ATTEMPTS_CLEANUP_INTERVAL", time.Hour),
		},
		Broker: BrokerConfig{
			RabbitURL:   getEnv("RABBIT_URL", ""),
			Exchange:    getEnv("EVENTS_EXCHANGE", "homequeen.events"),
			NotifyQueue: getEnv("NOTIFY_QUEUE", "homequeen.notifications"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*", "https://*"}),
		},
		Observability: ObservabilityConfig{
			ServiceName:       getEnv("SERVICE_NAME", "home-queen-api"),
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			LogFormat:         getEnv("LOG_FORMAT", "json"),
			TracingEnabled:    getEnvAsBool("TRACING_ENABLED", false),
			TracingEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			TracingInsecure:   getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			TracingSampleRate: getEnvAsFloat("TRACING_SAMPLE_RATE", 0.1),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that settings are structurally usable. Missing secrets are
// not an error here; see Misconfigurations.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("unsupported database driver %q (want postgres or pgx)", c.Database.Driver)
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// Problem identifies a setting that keeps the API from serving requests
type Problem string

const (
	ProblemDatabaseURL Problem = "database_url"
	ProblemJWTSecret   Problem = "jwt_secret"
)

// Misconfiguration describes one failed fail-closed check
type Misconfiguration struct {
	Problem Problem
	Message string
}

func (m Misconfiguration) Error() string {
	return m.Message
}

// Misconfigurations reports the settings that must be fixed before the API can
// serve authenticated routes. The database check is reported first.
func (c *Config) Misconfigurations() []Misconfiguration {
	var problems []Misconfiguration

	if !IsUsableDatabaseURL(c.Database.ConnectionString) {
		problems = append(problems, Misconfiguration{
			Problem: ProblemDatabaseURL,
			Message: "DATABASE_URL is missing or has a placeholder",
		})
	}

	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		problems = append(problems, Misconfiguration{
			Problem: ProblemJWTSecret,
			Message: fmt.Sprintf("JWT_SECRET is missing or shorter than %d bytes", MinJWTSecretLength),
		})
	}

	return problems
}

// IsUsableDatabaseURL reports whether a connection string is set and free of
// known placeholder fragments (compared case-insensitively).
func IsUsableDatabaseURL(dsn string) bool {
	if strings.TrimSpace(dsn) == "" {
		return false
	}
	lower := strings.ToLower(dsn)
	for _, p := range dbURLPlaceholders {
		if strings.Contains(lower, strings.ToLower(p)) {
			return false
		}
	}
	return !strings.EqualFold(dsnHost(dsn), "host")
}

// dsnHost returns the host of a URL or key=value connection string
func dsnHost(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Host != "" {
		return u.Hostname()
	}
	for _, field := range strings.Fields(dsn) {
		if k, v, ok := strings.Cut(field, "="); ok && strings.EqualFold(k, "host") {
			return v
		}
	}
	return ""
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return c.ConnectionString
}

// LogString returns a safe string for logging (no password).
func (c *DatabaseConfig) LogString() string {
	u, err := url.Parse(c.ConnectionString)
	if err != nil || u.Host == "" {
		return "host=<from DATABASE_URL>"
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	db := strings.TrimPrefix(u.Path, "/")
	return fmt.Sprintf("host=%s port=%s database=%s driver=%s", u.Hostname(), port, db, c.Driver)
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 3001)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 3001
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, p := range strings.Split(valueStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
