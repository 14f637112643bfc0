// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/election"
)

const programName = "ballotbox"

var globalFlags = struct {
	debug bool
}{}

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), "component", programName)
}

// commonRun configures the JSON logger and GOMAXPROCS.
func commonRun() {
	logLevel := slog.LevelInfo
	addSource := false
	if globalFlags.debug {
		logLevel = slog.LevelDebug
		addSource = true
	}
	slog.SetDefault(slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: addSource,
			Level:     logLevel,
		}),
	))

	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// openService validates cfg, connects to the database and makes sure the
// schema exists. The caller closes the returned connection.
func openService(cfg *cliparse.Config) (*election.Service, *sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	conn, err := db.Open(cfg.Dialect(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if err := db.CreateSchema(conn, cfg.Dialect()); err != nil {
		conn.Close()
		return nil, nil, err
	}
	slog.Info("database schema ready", "database_type", cfg.DatabaseType)

	return election.New(conn, cfg.Dialect(), election.WithPolicy(cfg.Policy())), conn, nil
}

func main() {
	// .env is read before flags are bound so its values become flag defaults
	envFile := ".env"
	if v := os.Getenv("BALLOTBOX_ENV_FILE"); v != "" {
		envFile = v
	}
	if err := cliparse.LoadDotEnv(envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := cliparse.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Single-election voting service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonRun()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), &cfg)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	cliparse.BindFlags(rootCmd.PersistentFlags(), &cfg)

	rootCmd.AddCommand(serveCommand(&cfg))
	rootCmd.AddCommand(votersCommand(&cfg))
	rootCmd.AddCommand(paperResultsCommand(&cfg))
	rootCmd.AddCommand(adminKeyCommand(&cfg))

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
