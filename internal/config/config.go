// Package config assembles runtime configuration from environment
// variables into an explicit struct that gets passed to the components
// that need it. Nothing reads the environment after startup.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
)

// Config holds everything the process needs to serve.
type Config struct {
	DBName     string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string

	HTTPAddr string

	// KafkaBrokers is empty when event publishing is disabled.
	KafkaBrokers []string

	LogMode string
}

// Load reads configuration from the environment. DB_NAME, DB_USER and
// DB_PASSWORD are required; a missing one is a startup failure, not
// something to degrade around.
func Load() (Config, error) {
	cfg := Config{
		DBHost:   getEnv("DB_HOST", "localhost"),
		DBPort:   getEnv("DB_PORT", "5432"),
		HTTPAddr: getEnv("HTTP_ADDR", ":5001"),
		LogMode:  getEnv("LOG_MODE", "development"),
	}

	var missing []string
	for _, req := range []struct {
		key string
		dst *string
	}{
		{"DB_NAME", &cfg.DBName},
		{"DB_USER", &cfg.DBUser},
		{"DB_PASSWORD", &cfg.DBPassword},
	} {
		v := os.Getenv(req.key)
		if v == "" {
			missing = append(missing, req.key)
			continue
		}
		*req.dst = v
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg, nil
}

// DSN renders the Postgres connection string for database/sql.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
