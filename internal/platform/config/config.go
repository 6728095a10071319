package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Realtime drivers accepted by REALTIME_DRIVER.
const (
	RealtimePostgres = "postgres"
	RealtimeRedis    = "redis"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Per-call deadline for every gateway round trip.
	GatewayTimeout time.Duration

	RealtimeDriver string
	RedisURL       string

	ProvisioningURL     string
	ProvisioningTimeout time.Duration

	// Object storage for avatars and attachments
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string

	CORSAllowedOrigins []string
	LoginRateLimit     string // ulule limiter format, e.g. "5-M"
	MinPasswordLength  int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "pm-dashboard")
	v.SetDefault("GATEWAY_TIMEOUT", "10s")
	v.SetDefault("REALTIME_DRIVER", RealtimePostgres)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("PROVISIONING_URL", "http://localhost:8080/functions/create-user")
	v.SetDefault("PROVISIONING_TIMEOUT", "10s")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("MIN_PASSWORD_LENGTH", 6)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RealtimeDriver:     strings.ToLower(strings.TrimSpace(v.GetString("REALTIME_DRIVER"))),
		RedisURL:           v.GetString("REDIS_URL"),
		ProvisioningURL:    v.GetString("PROVISIONING_URL"),
		S3Endpoint:         v.GetString("S3_ENDPOINT"),
		S3Region:           v.GetString("S3_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3AccessKeyID:      v.GetString("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey:  v.GetString("S3_SECRET_ACCESS_KEY"),
		S3PublicBaseURL:    v.GetString("S3_PUBLIC_BASE_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LoginRateLimit:     v.GetString("LOGIN_RATE_LIMIT"),
		MinPasswordLength:  v.GetInt("MIN_PASSWORD_LENGTH"),
	}

	if cfg.DatabaseURL == "" {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		slog.Warn("JWT_SECRET not set, using default insecure key")
	}

	cfg.JWTExpiryDuration = durationOr(v, "JWT_EXPIRY_DURATION", time.Hour)
	cfg.GatewayTimeout = durationOr(v, "GATEWAY_TIMEOUT", 10*time.Second)
	cfg.ProvisioningTimeout = durationOr(v, "PROVISIONING_TIMEOUT", 10*time.Second)

	switch cfg.RealtimeDriver {
	case RealtimePostgres:
	case RealtimeRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when REALTIME_DRIVER=%s", RealtimeRedis)
		}
	default:
		return nil, fmt.Errorf("unknown REALTIME_DRIVER %q", cfg.RealtimeDriver)
	}

	if cfg.MinPasswordLength <= 0 {
		cfg.MinPasswordLength = 6
	}
	if cfg.S3Bucket == "" {
		slog.Warn("S3_BUCKET not set, avatar and attachment uploads are disabled")
	}

	return cfg, nil
}

// StorageEnabled reports whether object storage is configured.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

// durationOr parses key, falling back to def on empty or invalid values.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			slog.Warn("Invalid duration, using default", slog.String("key", key), slog.String("value", raw), slog.String("default", def.String()))
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
