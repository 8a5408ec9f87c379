// Package config handles configuration for the ledger server, loaded from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the FundKeeper ledger server.
//
// Fields:
//   - Addr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the
//     default in production.
//   - TokenTTL: access token lifetime.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	Addr            string        `env:"FUNDKEEPER_ADDR" envDefault:":8080"`
	DatabaseDSN     string        `env:"FUNDKEEPER_DATABASE_DSN"`
	SecretKey       string        `env:"FUNDKEEPER_SECRET_KEY" envDefault:"dev-secret"`
	TokenTTL        time.Duration `env:"FUNDKEEPER_TOKEN_TTL" envDefault:"24h"`
	ShutdownTimeout time.Duration `env:"FUNDKEEPER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig builds a Config from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
