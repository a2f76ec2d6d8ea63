// Package config loads environment configuration for dukaan.
//
// Values come from the process environment, optionally overlaid by a .env
// file in the working directory. Every getter has a development default so
// the server boots with zero configuration.
package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAppPort        = "8080"
	defaultAppEnv         = "local"
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDB        = "dukaan"
	defaultRedisAddr      = "localhost:6379"
	defaultJWTSecret      = "change-me-in-production"
	defaultTokenTTL       = 7 * 24 * time.Hour
	defaultRequestTimeout = 15 * time.Second
)

var loadOnce sync.Once

// Load reads .env into the process environment. A missing file is not an
// error; explicit environment variables always win over .env entries.
func Load() error {
	loadOnce.Do(func() {
		_ = godotenv.Load()
	})
	return nil
}

func get(key, fallback string) string {
	_ = Load()
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func AppPort() string { return get("APP_PORT", defaultAppPort) }
func AppEnv() string  { return get("APP_ENV", defaultAppEnv) }

// IsProduction reports whether the app runs in a production environment.
func IsProduction() bool {
	env := AppEnv()
	return env == "production" || env == "prod"
}

// ── Mongo ────────────────────────────────────────────────────────────────────

func MongoURI() string      { return get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { return get("MONGO_DB", defaultMongoDB) }

// ── Redis ────────────────────────────────────────────────────────────────────

func RedisAddr() string     { return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return get("REDIS_PASSWORD", "") }

// ── Auth ─────────────────────────────────────────────────────────────────────

func JWTSecret() string { return get("JWT_SECRET", defaultJWTSecret) }

// TokenTTL is the lifetime of issued auth tokens (default 7 days).
func TokenTTL() time.Duration {
	return durationOr("TOKEN_TTL", defaultTokenTTL)
}

// CookieSecure controls the Secure flag on the auth cookie.
// Defaults to true in production.
func CookieSecure() bool {
	if v := get("COOKIE_SECURE", ""); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return IsProduction()
}

// ── HTTP ─────────────────────────────────────────────────────────────────────

// RequestTimeout bounds every request context (storage stalls included).
func RequestTimeout() time.Duration {
	return durationOr("REQUEST_TIMEOUT", defaultRequestTimeout)
}

func MaxBodyBytes() int64 {
	n, err := strconv.ParseInt(get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20 // 4 MB
	}
	return n
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDisk() string      { return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { return get("STORAGE_LOCAL_ROOT", "storage") }
func StorageURL() string       { return get("STORAGE_URL", "http://localhost:8080") }

func StorageS3Bucket() string   { return get("S3_BUCKET", "") }
func StorageS3Region() string   { return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { return get("S3_KEY", "") }
func StorageS3Secret() string   { return get("S3_SECRET", "") }
func StorageS3Endpoint() string { return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { return get("S3_URL", "") }

// ── Payments ─────────────────────────────────────────────────────────────────

func PaymentKeyID() string { return get("PAYMENT_KEY_ID", "mock_key_for_testing") }

// PaymentBaseURL points at the payment gateway API. Empty means
// payment orders are generated locally without calling out.
func PaymentBaseURL() string { return get("PAYMENT_BASE_URL", "") }
func PaymentWebhookSecret() string {
	return get("PAYMENT_WEBHOOK_SECRET", "mock_webhook_secret")
}

// Get reads any config key by name with a fallback.
func Get(key, fallback string) string { return get(key, fallback) }

func durationOr(key string, fallback time.Duration) time.Duration {
	v := get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
