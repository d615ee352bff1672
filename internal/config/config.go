package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
	// AutoMigrate creates missing tables on startup.
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name            string
	Version         string
	Port            int
	Env             string
	LogLevel        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// RedisConfig holds the report cache connection. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// MetricsConfig tunes snapshot loading and report serving.
type MetricsConfig struct {
	RefreshInterval time.Duration
	RefreshTimeout  time.Duration
	// DefaultRate is the hourly cost rate used when none is stored.
	DefaultRate decimal.NullDecimal
	CacheTTL    time.Duration
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64
	RateBurst int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
		slog.Debug("no .env file found, using process environment")
	}

	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "0"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		MaxConns:    int32(maxConns),
		MinConns:    int32(minConns),
		AutoMigrate: autoMigrate,
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_SHUTDOWN_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Name:            getEnv("APP_NAME", "hris-attendance-metrics"),
		Version:         getEnv("APP_VERSION", "v1.0.0"),
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		ShutdownTimeout: shutdownTimeout,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Metrics configuration
	if config.Metrics, err = loadMetrics(); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadMetrics() (MetricsConfig, error) {
	var m MetricsConfig
	var err error

	if m.RefreshInterval, err = time.ParseDuration(getEnv("METRICS_REFRESH_INTERVAL", "5m")); err != nil {
		return m, fmt.Errorf("invalid METRICS_REFRESH_INTERVAL: %w", err)
	}
	if m.RefreshTimeout, err = time.ParseDuration(getEnv("METRICS_REFRESH_TIMEOUT", "1m")); err != nil {
		return m, fmt.Errorf("invalid METRICS_REFRESH_TIMEOUT: %w", err)
	}
	if m.CacheTTL, err = time.ParseDuration(getEnv("METRICS_CACHE_TTL", "10m")); err != nil {
		return m, fmt.Errorf("invalid METRICS_CACHE_TTL: %w", err)
	}
	if raw := getEnv("CTC_PER_HOUR", ""); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return m, fmt.Errorf("invalid CTC_PER_HOUR: %w", err)
		}
		m.DefaultRate = decimal.NewNullDecimal(rate)
	}
	if m.RateLimit, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64); err != nil {
		return m, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if m.RateBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "40")); err != nil {
		return m, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	return m, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Metrics.RefreshInterval <= 0 {
		return fmt.Errorf("METRICS_REFRESH_INTERVAL must be positive")
	}
	if c.Metrics.DefaultRate.Valid && c.Metrics.DefaultRate.Decimal.IsNegative() {
		return fmt.Errorf("CTC_PER_HOUR must be non-negative")
	}
	if c.Metrics.RateLimit < 0 || c.Metrics.RateBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be non-negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	var result []string
	for _, v := range strings.Split(getEnv(key, fallback), ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
