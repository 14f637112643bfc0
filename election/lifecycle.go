// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/metrics"
)

// Activate opens voting on the named position.
//
// The "no other position is active" check and the flag update happen in
// one transaction; the partial unique index on positions.voting_active
// catches a concurrent activation that slips past the check.
func (s *Service) Activate(ctx context.Context, positionName string) error {
	positionName = strings.TrimSpace(positionName)
	if positionName == "" {
		return validationf("position_name is required")
	}

	var positionID int64
	err := s.withTx(ctx, "activate", func(tx *sql.Tx) error {
		p, err := loadPositionByName(ctx, tx, positionName, s.dialect.ForUpdate())
		if err != nil {
			return err
		}
		positionID = p.ID

		if p.VotingComplete {
			return statef("voting for %q is complete and cannot be reopened", p.Name)
		}
		if p.VotingActive {
			return statef("voting for %q is already active", p.Name)
		}

		var other string
		err = tx.QueryRowContext(ctx, `
			SELECT name FROM positions WHERE voting_active = TRUE AND id <> $1
		`, p.ID).Scan(&other)
		if err == nil {
			return conflictf("position %q is already active", other)
		}
		if err != sql.ErrNoRows {
			return err
		}

		var candidates int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM candidates WHERE position_id = $1
		`, p.ID).Scan(&candidates)
		if err != nil {
			return err
		}
		if candidates == 0 {
			return validationf("position %q has no candidates", p.Name)
		}
		if p.NumVotesAllowed == nil {
			return validationf("number of votes allowed is not set for %q", p.Name)
		}
		if allowed := *p.NumVotesAllowed; allowed <= 0 || allowed >= candidates {
			return validationf("number of votes allowed must be between 1 and %d for %q", candidates-1, p.Name)
		}

		_, err = tx.ExecContext(ctx, `UPDATE positions SET voting_active = TRUE WHERE id = $1`, p.ID)
		if db.IsUniqueViolation(err) {
			return conflictf("another position is already active")
		}
		return err
	})
	if err != nil {
		return err
	}

	metrics.LifecycleTransitions.WithLabelValues(metrics.TransitionActivate).Inc()
	slog.Info("voting started", "position_id", positionID, "name", positionName)
	return nil
}

// Deactivate closes voting on the named position for good and starts a
// new cycle by clearing every voter's has_voted flag.
func (s *Service) Deactivate(ctx context.Context, positionName string) error {
	positionName = strings.TrimSpace(positionName)
	if positionName == "" {
		return validationf("position_name is required")
	}

	var positionID, reset int64
	err := s.withTx(ctx, "deactivate", func(tx *sql.Tx) error {
		p, err := loadPositionByName(ctx, tx, positionName, s.dialect.ForUpdate())
		if err != nil {
			return err
		}
		positionID = p.ID

		if !p.VotingActive {
			return statef("voting for %q is not active", p.Name)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE positions SET voting_active = FALSE, voting_complete = TRUE WHERE id = $1
		`, p.ID); err != nil {
			return err
		}

		reset, err = resetVoters(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}

	metrics.LifecycleTransitions.WithLabelValues(metrics.TransitionDeactivate).Inc()
	slog.Info("voting stopped", "position_id", positionID, "name", positionName, "voters_reset", reset)
	return nil
}

// Status reports whether the named position is accepting votes.
func (s *Service) Status(ctx context.Context, positionName string) (bool, error) {
	p, err := s.Position(ctx, positionName)
	if err != nil {
		return false, err
	}
	return p.VotingActive, nil
}
