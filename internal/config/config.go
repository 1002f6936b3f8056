package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all gateway configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Service registry
	ServicesFile string // optional services.yaml; env/defaults used when absent
	ChatURL      string
	SurveyURL    string
	VideoURL     string
	SpeechURL    string

	// Per-call bounds
	ServiceTimeout time.Duration // default per-service analysis/probe timeout
	ScrapeTimeout  time.Duration // metrics scrape is deliberately short

	// Resilience (dispatcher retry is off unless MaxRetries > 0)
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Load testing
	LoadTestCap int

	// Dashboard
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Service tokens
	TokenSecret     string
	TokenPrevSecret string // previous signing key, honored during rotation
	TokenGrace      time.Duration
	TokenDefaultTTL time.Duration
	TokenMaxTTL     time.Duration
	AdminKeyHash    string // bcrypt hash gating POST /auth/token
}

// Load reads configuration from environment variables with defaults.
// The default service addresses match the local deployment's port layout.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ServicesFile: getEnv("SERVICES_FILE", ""),
		ChatURL:      getEnv("CHAT_SERVICE_URL", "http://localhost:8001"),
		SurveyURL:    getEnv("SURVEY_SERVICE_URL", "http://localhost:8002"),
		VideoURL:     getEnv("VIDEO_SERVICE_URL", "http://localhost:8003"),
		SpeechURL:    getEnv("SPEECH_SERVICE_URL", "http://localhost:8004"),

		ServiceTimeout: getEnvDuration("SERVICE_TIMEOUT", 5*time.Second),
		ScrapeTimeout:  getEnvDuration("SCRAPE_TIMEOUT", 2*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 0),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		LoadTestCap: getEnvInt("LOAD_TEST_CAP", 20),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		TokenSecret:     getEnv("TOKEN_SECRET", "emotion-gateway-dev-secret-change-me"),
		TokenPrevSecret: getEnv("TOKEN_PREV_SECRET", ""),
		TokenGrace:      getEnvDuration("TOKEN_GRACE", 5*time.Minute),
		TokenDefaultTTL: getEnvDuration("TOKEN_DEFAULT_TTL", 15*time.Minute),
		TokenMaxTTL:     getEnvDuration("TOKEN_MAX_TTL", time.Hour),
		AdminKeyHash:    getEnv("ADMIN_KEY_HASH", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
