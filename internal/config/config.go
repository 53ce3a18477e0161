package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	OTel      OTelConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Debug       bool
	Version     string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// JWTConfig holds JWT settings.
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled       bool
	CollectorAddr string
	SampleRatio   float64
}

// RateLimitConfig holds per-IP token bucket settings.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
	BurstSize         int
}

// Load reads configuration from an optional .env file plus environment
// variables, with environment variables taking precedence.
func Load() (*Config, error) {
	return load(".env", false)
}

// LoadWithPath reads configuration from a specific file, which must exist.
func LoadWithPath(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, required bool) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		if required {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing .env is fine; environment variables still apply.
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := bindConfig(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "contactdeck")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "postgres")
	v.SetDefault("DATABASE_DBNAME", "contactdeck")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_CONNS", 25)
	v.SetDefault("DATABASE_MIN_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "30m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 50)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 5)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	v.SetDefault("JWT_SECRET", "dev-only-secret-change-in-production")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", "168h") // 7 days
	v.SetDefault("JWT_ISSUER", "contactdeck")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 50)
	v.SetDefault("RATE_LIMIT_BURST_SIZE", 100)
}

func bindConfig(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")

	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	cfg.Database.Host = v.GetString("DATABASE_HOST")
	cfg.Database.Port = v.GetInt("DATABASE_PORT")
	cfg.Database.User = v.GetString("DATABASE_USER")
	cfg.Database.Password = v.GetString("DATABASE_PASSWORD")
	cfg.Database.DBName = v.GetString("DATABASE_DBNAME")
	cfg.Database.SSLMode = v.GetString("DATABASE_SSLMODE")
	cfg.Database.MaxConns = v.GetInt("DATABASE_MAX_CONNS")
	cfg.Database.MinConns = v.GetInt("DATABASE_MIN_CONNS")
	cfg.Database.ConnMaxLifetime = v.GetDuration("DATABASE_CONN_MAX_LIFETIME")
	cfg.Database.ConnMaxIdleTime = v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.AccessTokenTTL = v.GetDuration("JWT_ACCESS_TOKEN_TTL")
	cfg.JWT.RefreshTokenTTL = v.GetDuration("JWT_REFRESH_TOKEN_TTL")
	cfg.JWT.Issuer = v.GetString("JWT_ISSUER")

	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	cfg.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	cfg.RateLimit.RequestsPerSecond = v.GetInt("RATE_LIMIT_REQUESTS_PER_SECOND")
	cfg.RateLimit.BurstSize = v.GetInt("RATE_LIMIT_BURST_SIZE")

	return cfg
}

// Validate checks the configuration for fatal mistakes.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.IsProduction() && c.JWT.Secret == "dev-only-secret-change-in-production" {
		return fmt.Errorf("JWT secret must be changed in production")
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment reports whether the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
