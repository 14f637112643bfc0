// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

FromEnv reads the environment into a Config, BindFlags layers flags on
top of it, and Validate checks the result once flags are parsed:

	cfg, err := cliparse.FromEnv()
	cliparse.BindFlags(rootCmd.PersistentFlags(), &cfg)
	// after parsing
	err = cfg.Validate()

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL or SQLite connection string (required)
  - DatabaseType: postgres or sqlite (inferred from DatabaseURL when empty)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - SelectionPolicy: exact (default) or up-to
  - Metrics: expose /metrics (default: true)

# CLI Flags

	-p, --port             Server port
	-d, --database-url     Database URL
	-t, --database-type    Database type
	--admin-salt           Admin key salt
	--selection-policy     Ballot size rule
	--metrics              Expose Prometheus metrics

# Environment Variables

Read with envconfig; a .env file is loaded first by LoadDotEnv:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	ADMIN_KEY_SALT   → --admin-salt
	SELECTION_POLICY → --selection-policy
	METRICS          → --metrics

CLI flags take precedence over environment variables, which take
precedence over .env.

# Validation

Validate returns an error if required values are missing or invalid:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - DATABASE_TYPE and SELECTION_POLICY must be known values
*/
package cliparse
