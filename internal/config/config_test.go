package config_test

import (
	"testing"
	"time"

	"site-analytics-service/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP_ADDR :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("expected default BCRYPT_COST 12, got %d", cfg.BcryptCost)
	}
	if cfg.LegacyClickTags {
		t.Fatalf("expected STATS_LEGACY_CLICK_TAGS off by default")
	}
	if cfg.SessionDuration() != 24*time.Hour {
		t.Fatalf("expected default session TTL 24h, got %v", cfg.SessionDuration())
	}
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET unset")
	}
}

func TestLoad_InvalidBcryptCost(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("BCRYPT_COST", "99")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for out-of-range BCRYPT_COST")
	}
}

func TestSessionDuration_Invalid(t *testing.T) {
	cfg := &config.Config{SessionTTL: "not-a-duration"}
	if cfg.SessionDuration() != 24*time.Hour {
		t.Fatalf("expected fallback 24h for invalid TTL")
	}
}
