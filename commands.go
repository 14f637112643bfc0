// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/models"
)

func votersCommand(cfg *cliparse.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voters",
		Short: "Manage the voter registry",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv>",
		Short: "Register voters from a phone_number,account_number CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			svc, conn, err := openService(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := svc.ImportVoters(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d voters\n", n)
			return nil
		},
	})
	return cmd
}

// readPaperResults parses a YAML document mapping position name to a list
// of {candidate, count} entries.
func readPaperResults(path string) (models.PaperResultsBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var batch models.PaperResultsBatch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return batch, nil
}

func paperResultsCommand(cfg *cliparse.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paper-results",
		Short: "Manage manually counted results",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Add paper tallies to closed positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := readPaperResults(args[0])
			if err != nil {
				return err
			}

			svc, conn, err := openService(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := svc.RecordPaperResults(cmd.Context(), batch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded paper results for %d positions\n", len(batch))
			return nil
		},
	})
	return cmd
}

func adminKeyCommand(cfg *cliparse.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "admin-key",
		Short: "Print the X-Admin-Key value for the configured salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.AdminKeySalt == "" {
				return fmt.Errorf("ADMIN_KEY_SALT required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.GenerateAdminKey(auth.AdminScope, cfg.AdminKeySalt))
			return nil
		},
	}
}
