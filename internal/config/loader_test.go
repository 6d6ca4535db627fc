package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearReservationEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"RESERVATIONS_HTTP_PORT",
		"RESERVATIONS_SQLITE_DSN",
		"RESERVATIONS_SESSION_TTL",
		"RESERVATIONS_SEED_ADMIN_EMAIL",
		"RESERVATIONS_SEED_ADMIN_PASSWORD",
		"RESERVATIONS_SEED_DEFAULT_SLOTS",
	} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearReservationEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:reservations.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Fatalf("expected default session TTL of 12h, got %v", cfg.SessionTTL)
		}
		if !cfg.SeedDefaultSlots {
			t.Fatalf("expected default slot seeding enabled")
		}
		if cfg.SeedAdminEmail != "" || cfg.SeedAdminPassword != "" {
			t.Fatalf("expected no seed admin by default, got %q", cfg.SeedAdminEmail)
		}
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		clearReservationEnv(t)
		t.Setenv("RESERVATIONS_HTTP_PORT", "9090")
		t.Setenv("RESERVATIONS_SQLITE_DSN", "file:test.db")
		t.Setenv("RESERVATIONS_SESSION_TTL", "45m")
		t.Setenv("RESERVATIONS_SEED_ADMIN_EMAIL", "Admin@Example.edu")
		t.Setenv("RESERVATIONS_SEED_ADMIN_PASSWORD", "bootstrap-password")
		t.Setenv("RESERVATIONS_SEED_DEFAULT_SLOTS", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:test.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != 45*time.Minute {
			t.Fatalf("expected 45m TTL, got %v", cfg.SessionTTL)
		}
		if cfg.SeedAdminEmail != "admin@example.edu" {
			t.Fatalf("expected lowercased seed email, got %q", cfg.SeedAdminEmail)
		}
		if cfg.SeedDefaultSlots {
			t.Fatalf("expected slot seeding disabled")
		}
	})

	t.Run("collects every invalid variable in one error", func(t *testing.T) {
		clearReservationEnv(t)
		t.Setenv("RESERVATIONS_HTTP_PORT", "not-a-port")
		t.Setenv("RESERVATIONS_SESSION_TTL", "-5m")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		for _, key := range []string{"RESERVATIONS_HTTP_PORT", "RESERVATIONS_SESSION_TTL"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected error to name %s, got %q", key, err.Error())
			}
		}
	})

	t.Run("rejects a seed admin email without a password", func(t *testing.T) {
		clearReservationEnv(t)
		t.Setenv("RESERVATIONS_SEED_ADMIN_EMAIL", "admin@example.edu")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for incomplete seed admin configuration")
		}
	})
}
