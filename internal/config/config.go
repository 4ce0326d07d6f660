package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	RedisURL    string
	AMQPURL     string
	CORSOrigins []string

	AIAPIURL  string
	AIAPIKey  string
	AIModel   string
	AITimeout time.Duration

	RecommendationCacheTTL time.Duration
}

func Load() *Config {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	return &Config{
		Port:                   getEnv("PORT", "8081"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		RedisURL:               getEnv("REDIS_URL", ""),
		AMQPURL:                getEnv("AMQP_URL", ""),
		CORSOrigins:            getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		AIAPIURL:               getEnv("AI_API_URL", "https://api.openai.com/v1/chat/completions"),
		AIAPIKey:               getEnv("AI_API_KEY", ""),
		AIModel:                getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout:              time.Duration(getEnvAsInt("AI_TIMEOUT_SECONDS", 20)) * time.Second,
		RecommendationCacheTTL: time.Duration(getEnvAsInt("RECOMMENDATION_CACHE_TTL", 1800)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
