package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "GIN_MODE", "ACCURACY_THRESHOLD",
		"METRICS_CACHE_SIZE", "MAX_STORED_SESSIONS", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != ":8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.DBPath != "./data/sessions/sessions.db" {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.AccuracyThreshold != 50.0 {
		t.Fatalf("expected accuracy threshold 50, got %v", cfg.AccuracyThreshold)
	}
	if cfg.MaxStoredSessions != 50 {
		t.Fatalf("expected 50 stored sessions, got %d", cfg.MaxStoredSessions)
	}
	if cfg.RateLimitPerMinute != 600 {
		t.Fatalf("expected 600 requests per minute, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.MetricsCacheSize != 128 {
		t.Fatalf("expected cache size 128, got %d", cfg.MetricsCacheSize)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("expected a fallback jwt secret")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_PATH", "/tmp/runs.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCURACY_THRESHOLD", "12.5")
	t.Setenv("MAX_STORED_SESSIONS", "5")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()
	if cfg.Port != ":9090" || cfg.DBPath != "/tmp/runs.db" || cfg.JWTSecret != "s3cret" {
		t.Fatalf("string overrides not applied: %+v", cfg)
	}
	if cfg.AccuracyThreshold != 12.5 {
		t.Fatalf("expected 12.5, got %v", cfg.AccuracyThreshold)
	}
	if cfg.MaxStoredSessions != 5 || cfg.RateLimitPerMinute != 30 {
		t.Fatalf("int overrides not applied: %+v", cfg)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected release mode, got %q", cfg.GinMode)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ACCURACY_THRESHOLD", "-3")
	t.Setenv("MAX_STORED_SESSIONS", "lots")

	cfg := Load()
	if cfg.AccuracyThreshold != 50.0 {
		t.Fatalf("expected fallback threshold, got %v", cfg.AccuracyThreshold)
	}
	if cfg.MaxStoredSessions != 50 {
		t.Fatalf("expected fallback session cap, got %d", cfg.MaxStoredSessions)
	}
}
