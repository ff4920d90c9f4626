package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	LogLevel        string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	PublicBaseURL   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string

	UploadMaxBytes      int64
	MotivationMinLength int

	EmailProvider string
	ResendAPIKey  string
	EmailFrom     string
	AdminEmail    string

	RedisURL        string
	RateLimitIntake int

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string
	LLMTimeout   time.Duration

	JWTSecret string
	JWTTTL    time.Duration
}

const (
	defaultUploadMaxBytes      = 10 << 20
	defaultMotivationMinLength = 500
	defaultRateLimitIntake     = 5
	defaultEmailFrom           = "onboarding@resend.dev"
	defaultAdminEmail          = "nicoleoproject@gmail.com"
	defaultLLMTimeoutSeconds   = 30
	defaultJWTTTLHours         = 12
)

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", ".env.local")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	port := getEnv("PORT", "8080")
	return Config{
		Port:                port,
		CORSAllowOrigin:     splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		Env:                 env,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DatabaseURL:         dbURL,
		ObjectStoreType:     normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:       getEnv("LOCAL_STORE_DIR", "./data"),
		PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+strings.TrimPrefix(port, ":")), "/"),
		AWSRegion:           getEnv("AWS_REGION", ""),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3Prefix:            getEnv("S3_PREFIX", ""),
		S3PublicBaseURL:     getEnv("S3_PUBLIC_BASE_URL", ""),
		UploadMaxBytes:      getEnvInt64("UPLOAD_MAX_BYTES", defaultUploadMaxBytes),
		MotivationMinLength: int(getEnvInt64("MOTIVATION_MIN_LENGTH", defaultMotivationMinLength)),
		EmailProvider:       normalizeEmailProvider(getEnv("EMAIL_PROVIDER", ""), os.Getenv("RESEND_API_KEY")),
		ResendAPIKey:        getEnv("RESEND_API_KEY", ""),
		EmailFrom:           getEnv("EMAIL_FROM", getEnv("RESEND_FROM_EMAIL", defaultEmailFrom)),
		AdminEmail:          getEnv("ADMIN_EMAIL", defaultAdminEmail),
		RedisURL:            getEnv("REDIS_URL", ""),
		RateLimitIntake:     int(getEnvInt64("RATE_LIMIT_INTAKE", defaultRateLimitIntake)),
		LLMProvider:         getEnv("LLM_PROVIDER", ""),
		LLMModel:            getEnv("LLM_MODEL", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		LLMTimeout:          time.Duration(getEnvInt64("OPENAI_TIMEOUT_SECONDS", defaultLLMTimeoutSeconds)) * time.Second,
		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTTTL:              time.Duration(getEnvInt64("JWT_TTL_HOURS", defaultJWTTTLHours)) * time.Hour,
	}
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		// Real environment variables win over file values.
		if err := godotenv.Load(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || val <= 0 {
		log.Printf("config: %s invalid, using default %d", key, def)
		return def
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
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeEmailProvider(raw, resendKey string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "resend":
		return "resend"
	case "ses":
		return "ses"
	case "log":
		return "log"
	}
	if strings.TrimSpace(resendKey) != "" {
		return "resend"
	}
	return "log"
}
