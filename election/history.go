// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/models"
)

// History yields closed positions in id order, each with its candidates
// ordered by vote_count descending. Positions are fetched one at a time by
// keyset, so no cursor stays open while the caller handles an entry and
// the sequence can be ranged over again for a fresh read.
func (s *Service) History(ctx context.Context) iter.Seq2[models.HistoryEntry, error] {
	return func(yield func(models.HistoryEntry, error) bool) {
		var after int64
		for {
			p, err := scanPosition(s.conn.QueryRowContext(ctx, `
				SELECT `+positionColumns+`
				FROM positions
				WHERE voting_complete = TRUE AND id > $1
				ORDER BY id
				LIMIT 1
			`, after))
			if err == sql.ErrNoRows {
				return
			}
			if err != nil {
				yield(models.HistoryEntry{}, storage("load history", err))
				return
			}
			after = p.ID

			candidates, err := listCandidates(ctx, s.conn, p.ID, "votes")
			if err != nil {
				yield(models.HistoryEntry{}, err)
				return
			}

			entry := models.HistoryEntry{
				ID:                p.ID,
				Name:              p.Name,
				VotingComplete:    p.VotingComplete,
				PaperResultsAdded: p.PaperResultsAdded,
				Candidates:        candidates,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// ListHistory collects History into a slice.
func (s *Service) ListHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	for entry, err := range s.History(ctx) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RecordPaperResults adds manually counted votes to closed positions.
//
// The batch is all or nothing: every position and candidate name is
// resolved and every count checked before any tally changes. Unknown names
// are reported together in a single not-found error.
func (s *Service) RecordPaperResults(ctx context.Context, batch models.PaperResultsBatch) error {
	if len(batch) == 0 {
		return validationf("paper results batch is empty")
	}

	results := make(models.PaperResultsBatch, len(batch))
	for raw, entries := range batch {
		name := strings.TrimSpace(raw)
		if _, dup := results[name]; dup {
			return validationf("position %q appears more than once in the batch", name)
		}
		results[name] = entries
	}
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	slices.Sort(names)

	var total int64
	err := s.withTx(ctx, "record paper results", func(tx *sql.Tx) error {
		positions := make(map[string]models.Position, len(names))
		seen := make(map[int64]bool, len(names))
		var missing []string
		for _, name := range names {
			p, err := loadPositionByName(ctx, tx, name, s.dialect.ForUpdate())
			if KindOf(err) == KindNotFound {
				missing = append(missing, name)
				continue
			}
			if err != nil {
				return err
			}
			if seen[p.ID] {
				return validationf("position %q appears more than once in the batch", p.Name)
			}
			seen[p.ID] = true
			positions[name] = p
		}
		if len(missing) > 0 {
			return notFoundf("unknown positions: %s", strings.Join(missing, ", "))
		}

		var unknown []string
		for _, name := range names {
			p := positions[name]
			if !p.VotingComplete {
				return statef("position %q is not closed", p.Name)
			}
			if p.PaperResultsAdded {
				return statef("paper results were already added for %q", p.Name)
			}

			candidates, err := listCandidates(ctx, tx, p.ID, "id")
			if err != nil {
				return err
			}
			known := make(map[string]bool, len(candidates))
			for _, c := range candidates {
				known[c.Name] = true
			}

			for _, r := range results[name] {
				if r.Count < 0 {
					return validationf("count for %q in %q must not be negative", r.CandidateName, p.Name)
				}
				if !known[strings.TrimSpace(r.CandidateName)] {
					unknown = append(unknown, p.Name+"/"+r.CandidateName)
				}
			}
		}
		if len(unknown) > 0 {
			return notFoundf("unknown candidates: %s", strings.Join(unknown, ", "))
		}

		for _, name := range names {
			p := positions[name]
			for _, r := range results[name] {
				if _, err := tx.ExecContext(ctx, `
					UPDATE candidates SET vote_count = vote_count + $1
					WHERE position_id = $2 AND name = $3
				`, r.Count, p.ID, strings.TrimSpace(r.CandidateName)); err != nil {
					return err
				}
				total += r.Count
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE positions SET paper_results_added = TRUE WHERE id = $1
			`, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.PaperResultBatches.Inc()
	slog.Info("paper results recorded", "positions", len(names), "votes", total)
	return nil
}
