package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the reservations service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	SessionTTL        time.Duration
	SeedAdminEmail    string
	SeedAdminPassword string
	SeedDefaultSlots  bool
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults. Invalid values are
// collected and reported together so operators see every problem at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:reservations.db?_foreign_keys=on",
		SessionTTL:       12 * time.Hour,
		SeedDefaultSlots: true,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("RESERVATIONS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RESERVATIONS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVATIONS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("RESERVATIONS_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "RESERVATIONS_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.SeedAdminEmail = strings.ToLower(strings.TrimSpace(os.Getenv("RESERVATIONS_SEED_ADMIN_EMAIL")))
	cfg.SeedAdminPassword = os.Getenv("RESERVATIONS_SEED_ADMIN_PASSWORD")
	if (cfg.SeedAdminEmail == "") != (cfg.SeedAdminPassword == "") {
		invalid = append(invalid, "RESERVATIONS_SEED_ADMIN_EMAIL/RESERVATIONS_SEED_ADMIN_PASSWORD")
	}

	if seedValue := strings.TrimSpace(os.Getenv("RESERVATIONS_SEED_DEFAULT_SLOTS")); seedValue != "" {
		seed, err := strconv.ParseBool(seedValue)
		if err != nil {
			invalid = append(invalid, "RESERVATIONS_SEED_DEFAULT_SLOTS")
		} else {
			cfg.SeedDefaultSlots = seed
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
