package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort    string
	CORSOrigins []string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	// JWTSecret signs HS256 tokens in local development. Firebase RS256 tokens
	// are verified against FirebaseJWKSURL when FirebaseProjectID is set.
	JWTSecret         string
	FirebaseProjectID string
	FirebaseJWKSURL   string

	StripeSecretKey string
	StripeCurrency  string
	GatewayTimeout  time.Duration

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	DashboardRefreshInterval time.Duration
	OutboxPollInterval       time.Duration
	OutboxBatchSize          int
}

const defaultFirebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

// Load reads the configuration from the environment. Callers load .env with
// godotenv beforehand.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:    getEnv("PORT", "5000"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "worksphere"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		FirebaseProjectID: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseJWKSURL:   getEnv("FIREBASE_JWKS_URL", defaultFirebaseJWKSURL),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripeCurrency:  strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
		GatewayTimeout:  getDuration("GATEWAY_TIMEOUT", 15*time.Second),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "worksphere-photos"),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		DashboardRefreshInterval: getDuration("DASHBOARD_REFRESH_INTERVAL", 5*time.Minute),
		OutboxPollInterval:       getDuration("OUTBOX_POLL_INTERVAL", 5*time.Second),
		OutboxBatchSize:          getInt("OUTBOX_BATCH_SIZE", 100),
	}

	if cfg.JWTSecret == "" && cfg.FirebaseProjectID == "" {
		return nil, errors.New("config: one of JWT_SECRET or FIREBASE_PROJECT_ID must be set")
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: JWT_SECRET must be at least 32 characters")
	}
	if cfg.GatewayTimeout <= 0 {
		return nil, errors.New("config: GATEWAY_TIMEOUT must be positive")
	}
	if cfg.MinioPublicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MinioPublicURL = scheme + "://" + cfg.MinioEndpoint
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
