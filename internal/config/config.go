package config

import (
	"log"
	"os"
	"strconv"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	GinMode   string

	// Metrics
	AccuracyThreshold float64 // meters, mean horizontal accuracy below this is reliable
	MetricsCacheSize  int     // computed summaries kept for stopped sessions

	// Sessions
	MaxStoredSessions int

	RateLimitPerMinute int
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/sessions/sessions.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	return &Config{
		Port:               port,
		DBPath:             dbPath,
		JWTSecret:          jwtSecret,
		GinMode:            os.Getenv("GIN_MODE"),
		AccuracyThreshold:  envFloat("ACCURACY_THRESHOLD", 50.0),
		MetricsCacheSize:   envInt("METRICS_CACHE_SIZE", 128),
		MaxStoredSessions:  envInt("MAX_STORED_SESSIONS", 50),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 600),
	}
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("[Config] Ignoring invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("[Config] Ignoring invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return v
}
