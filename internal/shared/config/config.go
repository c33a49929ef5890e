package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAppName = "ScholarValley Operating System API"

// Config holds application configuration. It is built once at process start
// and handed to constructors; nothing reads the environment after Load.
type Config struct {
	AppName         string
	Env             string
	Port            string
	DatabaseURL     string
	CORSAllowOrigin []string

	JWTSecret       string
	JWTAlgorithm    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	ObjectStoreType string
	LocalStoreDir   string
	PublicBaseURL   string
	UploadURLTTL    time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string
	SESFromEmail        string

	AuthRatePerMinute int

	RootEmail    string
	RootPassword string

	// LambdaRuntime is set when AWS_LAMBDA_FUNCTION_NAME is present.
	LambdaRuntime bool
	DBPool        DBPool
}

// DBPool carries DB_* pool overrides. Zero fields keep the caller's defaults.
type DBPool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	env := normalizeEnv(getEnv("ENV", "dev"))
	if env != "production" {
		// Best-effort load of local env files for dev convenience.
		for _, path := range []string{".env", "cmd/.env"} {
			if _, err := os.Stat(path); err == nil {
				if err := godotenv.Load(path); err != nil {
					log.Printf("config: failed to load %s: %v", path, err)
				}
			}
		}
		env = normalizeEnv(getEnv("ENV", "dev"))
	}

	port := getEnv("PORT", "8000")
	return Config{
		AppName:         getEnv("APP_NAME", defaultAppName),
		Env:             env,
		Port:            port,
		DatabaseURL:     NormalizeDatabaseURL(os.Getenv("DATABASE_URL")),
		CORSAllowOrigin: splitAndTrim(getEnv("FRONTEND_ORIGIN", "*")),

		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET_KEY")),
		JWTAlgorithm:    strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
		AccessTokenTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL: time.Duration(getEnvInt("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,

		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:        strings.TrimSpace(os.Getenv("AWS_S3_BUCKET")),
		S3Prefix:        strings.TrimSpace(os.Getenv("AWS_S3_PREFIX")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "s3")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		UploadURLTTL:    time.Duration(getEnvInt("UPLOAD_URL_TTL_SECONDS", 900)) * time.Second,

		StripeSecretKey:     strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StripeWebhookSecret: strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
		SESFromEmail:        strings.TrimSpace(os.Getenv("SES_FROM_EMAIL")),

		AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 30),

		RootEmail:    strings.ToLower(getEnv("ROOT_EMAIL", "root@localhost")),
		RootPassword: getEnv("ROOT_PASSWORD", "root123"),

		LambdaRuntime: strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "",
		DBPool: DBPool{
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 0),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 0),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME"),
			PingTimeout:     getEnvDuration("DB_PING_TIMEOUT"),
		},
	}
}

// Validate reports settings that are required for the configured environment.
func (c Config) Validate() error {
	var errs []error
	if c.Env == "production" {
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required in production"))
		}
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET_KEY is required in production"))
		}
		if c.ObjectStoreType == "s3" && c.S3Bucket == "" {
			errs = append(errs, errors.New("AWS_S3_BUCKET is required when OBJECT_STORE=s3"))
		}
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, errors.New("JWT_ALGORITHM must be one of HS256, HS384, HS512"))
	}
	return errors.Join(errs...)
}

// IsDevLike reports whether in-memory fallbacks are acceptable.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

// NormalizeDatabaseURL strips SQLAlchemy driver suffixes so pgx accepts the DSN.
func NormalizeDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if base, _, hasDriver := strings.Cut(scheme, "+"); hasDriver {
		scheme = base
	}
	if scheme == "postgresql" {
		scheme = "postgres"
	}
	return scheme + "://" + rest
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid positive int %q, using %d", key, raw, def)
		return def
	}
	return val
}

// getEnvDuration parses a Go duration string; invalid or unset values yield 0.
func getEnvDuration(key string) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid duration %q, ignoring", key, raw)
		return 0
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "local":
		return "local"
	default:
		return "s3"
	}
}
