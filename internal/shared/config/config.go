package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	DatabaseURL     string
	Env             string

	AssistantProvider    string
	AssistantBaseURL     string
	AssistantAPIKey      string
	AssistantModel       string
	AssistantMaxAttempts int
	AssistantBaseDelay   time.Duration
	AssistantTimeout     time.Duration
	AssistantMaxInFlight int64

	RetentionKeep int

	MatchIndustryWeight float64
	MatchCategoryWeight float64
	MatchMinScore       float64
	MatchParallelism    int
}

// Load reads configuration from environment variables with sensible
// defaults, then applies an optional YAML overlay (CONFIG_FILE).
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:     dbURL,
		Env:             env,

		AssistantProvider:    normalizeProvider(getEnv("ASSISTANT_PROVIDER", "threads")),
		AssistantBaseURL:     getEnv("ASSISTANT_BASE_URL", "https://api.openai.com/v1"),
		AssistantAPIKey:      getEnv("ASSISTANT_API_KEY", ""),
		AssistantModel:       getEnv("ASSISTANT_MODEL", "gpt-4o-mini"),
		AssistantMaxAttempts: getEnvInt("ASSISTANT_MAX_ATTEMPTS", 3),
		AssistantBaseDelay:   getEnvDuration("ASSISTANT_BASE_DELAY", 500*time.Millisecond),
		AssistantTimeout:     getEnvDuration("ASSISTANT_TIMEOUT", 15*time.Second),
		AssistantMaxInFlight: int64(getEnvInt("ASSISTANT_MAX_IN_FLIGHT", 4)),

		RetentionKeep: getEnvInt("RETENTION_KEEP", 2),

		MatchIndustryWeight: getEnvFloat("MATCH_INDUSTRY_WEIGHT", 0.6),
		MatchCategoryWeight: getEnvFloat("MATCH_CATEGORY_WEIGHT", 0.4),
		MatchMinScore:       getEnvFloat("MATCH_MIN_SCORE", 40),
		MatchParallelism:    getEnvInt("MATCH_PARALLELISM", 8),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			log.Printf("config file %s: %v", path, err)
		}
	}
	return cfg
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
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
	if err != nil {
		log.Printf("config %s invalid int: %v", key, err)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config %s invalid float: %v", key, err)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration: %v", key, err)
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

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "chat":
		return "chat"
	default:
		return "threads"
	}
}
