package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/njprem/TripWise_APP_BackEnd/internal/logging"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Port          string
	StorageDriver string
	DatabaseURL   string
	JWTSecret     string
	AllowOrigins  []string

	LogLevel        string
	LogFormat       string
	LogstashTCPAddr string

	LLMProvider            string
	LLMAPIKey              string
	LLMModel               string
	LLMBaseURL             string
	LLMMaxTokens           int
	LLMTemperature         float64
	LLMRetries             int
	LLMGenerateTimeout     time.Duration
	LLMAvailabilityTimeout time.Duration
	LLMBreakerEnabled      bool
	LLMForceFallback       bool

	RecommendationCacheTTL time.Duration
	DestinationCacheTTL    time.Duration

	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinIOBucketArchive string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		logging.Warn().Err(err).Msg(".env file not found")
	}

	driver := strings.ToLower(getenv("STORAGE_DRIVER", StorageDriverPostgres))
	databaseURL := getenv("DATABASE_URL", "")
	if driver == StorageDriverPostgres {
		databaseURL = must("DATABASE_URL")
	}

	return Config{
		Port:          getenv("PORT", "8080"),
		StorageDriver: driver,
		DatabaseURL:   databaseURL,
		JWTSecret:     getenv("JWT_SECRET", ""),
		AllowOrigins:  splitAndTrim(getenv("ALLOW_ORIGINS", "*")),

		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),

		LLMProvider:            strings.ToLower(getenv("LLM_PROVIDER", "groq")),
		LLMAPIKey:              strings.TrimSpace(getenv("LLM_API_KEY", "")),
		LLMModel:               getenv("LLM_MODEL", ""),
		LLMBaseURL:             getenv("LLM_BASE_URL", ""),
		LLMMaxTokens:           intEnv("LLM_MAX_TOKENS", 2000),
		LLMTemperature:         floatEnv("LLM_TEMPERATURE", 0.7),
		LLMRetries:             intEnv("LLM_RETRIES", 2),
		LLMGenerateTimeout:     durationEnv("LLM_GENERATE_TIMEOUT", 30*time.Second),
		LLMAvailabilityTimeout: durationEnv("LLM_AVAILABILITY_TIMEOUT", 10*time.Second),
		LLMBreakerEnabled:      boolEnv("LLM_BREAKER_ENABLED", true),
		LLMForceFallback:       boolEnv("LLM_FORCE_FALLBACK", false),

		RecommendationCacheTTL: durationEnv("RECOMMENDATION_CACHE_TTL", 24*time.Hour),
		DestinationCacheTTL:    durationEnv("DESTINATION_CACHE_TTL", 7*24*time.Hour),

		MinIOEndpoint:      getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        boolEnv("MINIO_USE_SSL", false),
		MinIOBucketArchive: getenv("MINIO_BUCKET_ARCHIVE", ""),
	}
}

// ArchiveEnabled reports whether every MinIO setting needed for the
// generation archive is present.
func (c Config) ArchiveEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != "" && c.MinIOBucketArchive != ""
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func intEnv(k string, d int) int {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logging.Warn().Str("key", k).Str("value", raw).Msg("invalid integer, using default")
		return d
	}
	return v
}

func floatEnv(k string, d float64) float64 {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		logging.Warn().Str("key", k).Str("value", raw).Msg("invalid number, using default")
		return d
	}
	return v
}

func boolEnv(k string, d bool) bool {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		logging.Warn().Str("key", k).Str("value", raw).Msg("invalid boolean, using default")
		return d
	}
	return v
}

func durationEnv(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		logging.Warn().Str("key", k).Str("value", raw).Msg("invalid duration, using default")
		return d
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
