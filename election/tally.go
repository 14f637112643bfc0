// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"math"
	"strings"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/models"
)

// CastBallot validates and applies one voter's selection for the named
// position.
//
// The position row is share-locked and the voter row is locked for the
// whole transaction. Validation, the tally increments, the receipt and the
// has_voted flip are serialized against any other ballot from the same
// voter, and a Deactivate of the position waits for the ballot to commit.
// Ballots from different voters only contend on the candidate rows they
// increment.
func (s *Service) CastBallot(ctx context.Context, voterID, positionName string, selection []int64) error {
	voterID = strings.TrimSpace(voterID)
	positionName = strings.TrimSpace(positionName)
	if voterID == "" {
		return validationf("voter_id is required")
	}
	if positionName == "" {
		return validationf("position_name is required")
	}

	var positionID int64
	err := s.withTx(ctx, "cast ballot", func(tx *sql.Tx) error {
		// Position before voter, the same order Deactivate locks them in.
		p, err := loadPositionByName(ctx, tx, positionName, s.dialect.ForShare())
		if err != nil {
			return err
		}
		positionID = p.ID

		voter, err := loadVoter(ctx, tx, voterID, s.dialect.ForUpdate())
		if err != nil {
			return err
		}

		candidateIDs, err := candidateIDs(ctx, tx, p.ID)
		if err != nil {
			return err
		}

		allowed := 0
		if p.NumVotesAllowed != nil {
			allowed = *p.NumVotesAllowed
		}
		decision := ballot.Validate(
			ballot.Voter{ID: voter.ID, HasVoted: voter.HasVoted},
			ballot.Position{ID: p.ID, Active: p.VotingActive, VotesAllowed: allowed, Candidates: candidateIDs},
			selection,
			s.policy,
		)
		if !decision.Accepted {
			metrics.BallotsRejected.WithLabelValues(decision.Reason.String()).Inc()
			return rejected(decision)
		}

		if err := applyTally(ctx, tx, p.ID, selection); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO ballot_receipts (voter_id, position_id) VALUES ($1, $2)
		`, voter.ID, p.ID)
		if db.IsUniqueViolation(err) {
			metrics.BallotsRejected.WithLabelValues(ballot.AlreadyVoted.String()).Inc()
			return alreadyVoted()
		}
		if err != nil {
			return err
		}

		return markVoted(ctx, tx, voter.ID)
	})
	if err != nil {
		return err
	}

	metrics.BallotsAccepted.Inc()
	slog.Info("ballot cast", "position_id", positionID, "selections", len(selection))
	return nil
}

func candidateIDs(ctx context.Context, tx *sql.Tx, positionID int64) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM candidates WHERE position_id = $1`, positionID)
	if err != nil {
		return nil, storage("list candidate ids", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storage("scan candidate id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storage("list candidate ids", err)
	}
	return ids, nil
}

// applyTally adds one vote to each selected candidate. The increment is
// done by the database so concurrent ballots never lose an update.
func applyTally(ctx context.Context, tx *sql.Tx, positionID int64, selection []int64) error {
	for _, id := range selection {
		res, err := tx.ExecContext(ctx, `
			UPDATE candidates SET vote_count = vote_count + 1
			WHERE id = $1 AND position_id = $2
		`, id, positionID)
		if err != nil {
			return storage("apply tally", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storage("apply tally", err)
		}
		if n != 1 {
			return notFoundf("candidate %d not found in position", id)
		}
	}
	return nil
}

// LiveStats reports participation and per-candidate counts for the named
// position. Participation counts ballot receipts, so it stays accurate
// after the position closes and has_voted flags are cleared.
func (s *Service) LiveStats(ctx context.Context, positionName string) (models.LiveStats, error) {
	p, err := s.Position(ctx, positionName)
	if err != nil {
		return models.LiveStats{}, err
	}

	stats := models.LiveStats{PositionName: p.Name}
	err = s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&stats.TotalVoters)
	if err != nil {
		return models.LiveStats{}, storage("count voters", err)
	}
	err = s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballot_receipts WHERE position_id = $1
	`, p.ID).Scan(&stats.VotersWhoVoted)
	if err != nil {
		return models.LiveStats{}, storage("count ballots", err)
	}
	stats.Percent = Participation(stats.VotersWhoVoted, stats.TotalVoters)

	stats.Candidates, err = listCandidates(ctx, s.conn, p.ID, "votes")
	if err != nil {
		return models.LiveStats{}, err
	}
	return stats, nil
}

// Participation returns round(voted/total*100), or 0 when there are no voters.
func Participation(voted, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(voted) / float64(total) * 100))
}

// ActiveSnapshot returns the active position as the given voter sees it.
// Position is nil when nothing is active.
func (s *Service) ActiveSnapshot(ctx context.Context, voterID string) (models.ActiveSnapshot, error) {
	voterID = strings.TrimSpace(voterID)
	if voterID == "" {
		return models.ActiveSnapshot{}, validationf("voter_id is required")
	}

	voter, err := loadVoter(ctx, s.conn, voterID, "")
	if err != nil {
		return models.ActiveSnapshot{}, err
	}

	snap := models.ActiveSnapshot{HasVoted: voter.HasVoted, Candidates: []models.Candidate{}}
	p, err := scanPosition(s.conn.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM positions WHERE voting_active = TRUE`))
	if err == sql.ErrNoRows {
		return snap, nil
	}
	if err != nil {
		return models.ActiveSnapshot{}, storage("load active position", err)
	}

	snap.Position = &p
	if p.NumVotesAllowed != nil {
		snap.NumVotesAllowed = *p.NumVotesAllowed
	}
	snap.Candidates, err = listCandidates(ctx, s.conn, p.ID, "id")
	if err != nil {
		return models.ActiveSnapshot{}, err
	}
	return snap, nil
}
