package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/db"
)

type Config struct {
	Port            int    `envconfig:"PORT" default:"3318"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	DatabaseType    string `envconfig:"DATABASE_TYPE"`
	AdminKeySalt    string `envconfig:"ADMIN_KEY_SALT"`
	SelectionPolicy string `envconfig:"SELECTION_POLICY" default:"exact"`
	Metrics         bool   `envconfig:"METRICS" default:"true"`
}

// LoadDotEnv loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// FromEnv reads configuration from environment variables, applying defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// BindFlags registers flags for every setting. Current values of cfg become
// the flag defaults, so flags override the environment.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	// Network config (can be CLI args or env)
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Server port")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", cfg.DatabaseURL, "Database URL")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", cfg.DatabaseType, "Database type (postgres or sqlite); inferred from the URL when empty")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", cfg.AdminKeySalt, "Admin key salt (prefer env)")

	fs.StringVar(&cfg.SelectionPolicy, "selection-policy", cfg.SelectionPolicy, "Ballot size rule: exact or up-to")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "Expose Prometheus metrics on /metrics")
}

// Validate checks required settings and fills in the database type.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType == "" {
		c.DatabaseType = inferDatabaseType(c.DatabaseURL)
	}
	if _, err := db.ParseDialect(c.DatabaseType); err != nil {
		return err
	}
	if _, err := ballot.ParsePolicy(c.SelectionPolicy); err != nil {
		return err
	}

	// Secrets - MUST be provided
	if c.AdminKeySalt == "" {
		return errors.New("ADMIN_KEY_SALT required")
	}
	return nil
}

// Dialect returns the parsed database type. Call Validate first.
func (c Config) Dialect() db.Dialect {
	d, _ := db.ParseDialect(c.DatabaseType)
	return d
}

// Policy returns the parsed selection policy. Call Validate first.
func (c Config) Policy() ballot.Policy {
	p, _ := ballot.ParsePolicy(c.SelectionPolicy)
	return p
}

func inferDatabaseType(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return string(db.Postgres)
	}
	return string(db.SQLite)
}
