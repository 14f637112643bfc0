// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
)

const positionColumns = `id, name, num_votes_allowed, voting_active, voting_complete, paper_results_added`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosition(row rowScanner) (models.Position, error) {
	var p models.Position
	var allowed sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &allowed, &p.VotingActive, &p.VotingComplete, &p.PaperResultsAdded)
	if err != nil {
		return models.Position{}, err
	}
	if allowed.Valid {
		n := int(allowed.Int64)
		p.NumVotesAllowed = &n
	}
	p.State = models.StateOf(p.VotingActive, p.VotingComplete)
	return p, nil
}

func loadPositionByName(ctx context.Context, q querier, name, lock string) (models.Position, error) {
	p, err := scanPosition(q.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM positions WHERE name = $1`+lock, name))
	if err == sql.ErrNoRows {
		return models.Position{}, notFoundf("position %q not found", name)
	}
	if err != nil {
		return models.Position{}, storage("load position", err)
	}
	return p, nil
}

func loadPositionByID(ctx context.Context, q querier, id int64, lock string) (models.Position, error) {
	p, err := scanPosition(q.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM positions WHERE id = $1`+lock, id))
	if err == sql.ErrNoRows {
		return models.Position{}, notFoundf("position %d not found", id)
	}
	if err != nil {
		return models.Position{}, storage("load position", err)
	}
	return p, nil
}

// requireConfiguring refuses changes to a position whose tally is running
// or finished.
func requireConfiguring(p models.Position) error {
	switch {
	case p.VotingComplete:
		return statef("position %q is closed", p.Name)
	case p.VotingActive:
		return statef("position %q is active", p.Name)
	}
	return nil
}

func insertPosition(ctx context.Context, q querier, name string) (models.Position, error) {
	p := models.Position{Name: name, State: models.StateConfiguring}
	err := q.QueryRowContext(ctx, `
		INSERT INTO positions (name, voting_active, voting_complete, paper_results_added)
		VALUES ($1, FALSE, FALSE, FALSE)
		RETURNING id
	`, name).Scan(&p.ID)
	if db.IsUniqueViolation(err) {
		return models.Position{}, conflictf("position %q already exists", name)
	}
	if err != nil {
		return models.Position{}, storage("insert position", err)
	}
	return p, nil
}

// CreatePosition adds a position in the configuring state.
func (s *Service) CreatePosition(ctx context.Context, name string) (models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Position{}, validationf("position name is required")
	}

	p, err := insertPosition(ctx, s.conn, name)
	if err != nil {
		return models.Position{}, err
	}

	slog.Info("position created", "position_id", p.ID, "name", p.Name)
	return p, nil
}

// Position returns a position by name.
func (s *Service) Position(ctx context.Context, name string) (models.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Position{}, validationf("position name is required")
	}
	return loadPositionByName(ctx, s.conn, name, "")
}

// Positions lists every position in creation order.
func (s *Service) Positions(ctx context.Context) ([]models.Position, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+positionColumns+` FROM positions ORDER BY id`)
	if err != nil {
		return nil, storage("list positions", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, storage("scan position", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storage("list positions", err)
	}
	return positions, nil
}

// AddCandidate adds a candidate to the named position, creating the
// position if it does not exist yet.
func (s *Service) AddCandidate(ctx context.Context, positionName, name, occupation string) (models.Candidate, error) {
	positionName = strings.TrimSpace(positionName)
	name = strings.TrimSpace(name)
	occupation = strings.TrimSpace(occupation)
	if positionName == "" {
		return models.Candidate{}, validationf("position_name is required")
	}
	if name == "" {
		return models.Candidate{}, validationf("candidate name is required")
	}

	c := models.Candidate{Name: name, Occupation: occupation}
	err := s.withTx(ctx, "add candidate", func(tx *sql.Tx) error {
		p, err := loadPositionByName(ctx, tx, positionName, s.dialect.ForUpdate())
		if KindOf(err) == KindNotFound {
			p, err = insertPosition(ctx, tx, positionName)
		}
		if err != nil {
			return err
		}
		if err := requireConfiguring(p); err != nil {
			return err
		}

		c.PositionID = p.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO candidates (position_id, name, occupation, vote_count)
			VALUES ($1, $2, $3, 0)
			RETURNING id
		`, p.ID, name, occupation).Scan(&c.ID)
		if db.IsUniqueViolation(err) {
			return conflictf("candidate %q already exists for position %q", name, positionName)
		}
		return err
	})
	if err != nil {
		return models.Candidate{}, err
	}

	slog.Info("candidate added", "position_id", c.PositionID, "candidate_id", c.ID)
	return c, nil
}

// Candidates lists the candidates of the named position in creation order.
func (s *Service) Candidates(ctx context.Context, positionName string) ([]models.Candidate, error) {
	p, err := s.Position(ctx, positionName)
	if err != nil {
		return nil, err
	}
	return listCandidates(ctx, s.conn, p.ID, "id")
}

// listCandidates orders by "id" or by "votes" (vote_count descending).
func listCandidates(ctx context.Context, q querier, positionID int64, order string) ([]models.Candidate, error) {
	orderBy := "id"
	if order == "votes" {
		orderBy = "vote_count DESC, id"
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id, position_id, name, occupation, vote_count
		FROM candidates
		WHERE position_id = $1
		ORDER BY `+orderBy, positionID)
	if err != nil {
		return nil, storage("list candidates", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.PositionID, &c.Name, &c.Occupation, &c.VoteCount); err != nil {
			return nil, storage("scan candidate", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storage("list candidates", err)
	}
	return candidates, nil
}

// RemoveCandidate deletes a candidate from a position that is still
// being configured.
func (s *Service) RemoveCandidate(ctx context.Context, candidateID int64) error {
	if candidateID <= 0 {
		return validationf("candidate id must be positive")
	}

	var positionID int64
	err := s.withTx(ctx, "remove candidate", func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT position_id FROM candidates WHERE id = $1`, candidateID).Scan(&positionID)
		if err == sql.ErrNoRows {
			return notFoundf("candidate %d not found", candidateID)
		}
		if err != nil {
			return err
		}

		p, err := loadPositionByID(ctx, tx, positionID, s.dialect.ForUpdate())
		if err != nil {
			return err
		}
		if err := requireConfiguring(p); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, candidateID)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("candidate removed", "position_id", positionID, "candidate_id", candidateID)
	return nil
}

// SetVotesAllowed sets how many candidates a voter selects for a position.
// The upper bound against the candidate count is enforced by Activate,
// since candidates may still be added afterwards.
func (s *Service) SetVotesAllowed(ctx context.Context, positionID int64, n int) error {
	if n <= 0 {
		return validationf("num_votes_allowed must be a positive integer")
	}

	err := s.withTx(ctx, "set votes allowed", func(tx *sql.Tx) error {
		p, err := loadPositionByID(ctx, tx, positionID, s.dialect.ForUpdate())
		if err != nil {
			return err
		}
		if err := requireConfiguring(p); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE positions SET num_votes_allowed = $1 WHERE id = $2
		`, n, positionID)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("votes allowed updated", "position_id", positionID, "num_votes_allowed", n)
	return nil
}
