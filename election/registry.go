// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/models"
)

const accountNumberLen = 5

// NormalizePhone strips everything but digits, so "123-4567" and
// "1234567" name the same voter.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateCredentials(phone, account string) (string, string, error) {
	phone = NormalizePhone(phone)
	account = strings.TrimSpace(account)
	if phone == "" {
		return "", "", validationf("phone_number is required")
	}
	if len(phone) < 7 || len(phone) > 15 {
		return "", "", validationf("phone_number must have 7-15 digits")
	}
	if len(account) != accountNumberLen || NormalizePhone(account) != account {
		return "", "", validationf("account_number must be exactly %d digits", accountNumberLen)
	}
	return phone, account, nil
}

// RegisterVoter adds a voter with a fresh identifier.
func (s *Service) RegisterVoter(ctx context.Context, phone, account string) (models.Voter, error) {
	phone, account, err := validateCredentials(phone, account)
	if err != nil {
		return models.Voter{}, err
	}

	voter, err := insertVoter(ctx, s.conn, phone, account)
	if err != nil {
		return models.Voter{}, err
	}

	metrics.VotersRegistered.Inc()
	slog.Info("voter registered", "voter_id", voter.ID)
	return voter, nil
}

func insertVoter(ctx context.Context, q querier, phone, account string) (models.Voter, error) {
	voter := models.Voter{
		ID:            uuid.NewString(),
		PhoneNumber:   phone,
		AccountNumber: account,
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO voters (id, phone_number, account_number, has_voted)
		VALUES ($1, $2, $3, FALSE)
	`, voter.ID, voter.PhoneNumber, voter.AccountNumber)
	if db.IsUniqueViolation(err) {
		return models.Voter{}, conflictf("voter with this phone and account number already exists")
	}
	if err != nil {
		return models.Voter{}, storage("insert voter", err)
	}
	return voter, nil
}

// ImportVoters registers every phone_number,account_number row of a CSV
// document in one transaction. A header row is skipped if present. Any bad
// row aborts the whole import.
func (s *Service) ImportVoters(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return 0, validationf("invalid CSV: %v", err)
	}

	imported := 0
	err = s.withTx(ctx, "import voters", func(tx *sql.Tx) error {
		for i, rec := range records {
			line := i + 1
			if i == 0 && isHeader(rec) {
				continue
			}
			if len(rec) < 2 {
				return validationf("line %d: expected phone_number,account_number", line)
			}
			phone, account, err := validateCredentials(rec[0], rec[1])
			if err != nil {
				return validationf("line %d: %s", line, err.Error())
			}
			if _, err := insertVoter(ctx, tx, phone, account); err != nil {
				var e *Error
				if errors.As(err, &e) && e.Kind == KindConflict {
					return conflictf("line %d: %s", line, e.Message)
				}
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.VotersRegistered.Add(float64(imported))
	slog.Info("voters imported", "count", imported)
	return imported, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && NormalizePhone(rec[0]) == "" && strings.TrimSpace(rec[0]) != ""
}

// Verify resolves a phone/account pair to a voter identifier.
func (s *Service) Verify(ctx context.Context, phone, account string) (string, error) {
	phone = NormalizePhone(phone)
	account = strings.TrimSpace(account)
	if phone == "" || account == "" {
		return "", validationf("phone_number and account_number are required")
	}

	var id string
	err := s.conn.QueryRowContext(ctx, `
		SELECT id FROM voters WHERE phone_number = $1 AND account_number = $2
	`, phone, account).Scan(&id)
	if err == sql.ErrNoRows {
		return "", notFoundf("voter not found")
	}
	if err != nil {
		return "", storage("verify voter", err)
	}
	return id, nil
}

// Voter returns a voter by identifier.
func (s *Service) Voter(ctx context.Context, id string) (models.Voter, error) {
	return loadVoter(ctx, s.conn, id, "")
}

func loadVoter(ctx context.Context, q querier, id, lock string) (models.Voter, error) {
	var v models.Voter
	err := q.QueryRowContext(ctx, `
		SELECT id, phone_number, account_number, has_voted
		FROM voters
		WHERE id = $1`+lock, id).Scan(&v.ID, &v.PhoneNumber, &v.AccountNumber, &v.HasVoted)
	if err == sql.ErrNoRows {
		return models.Voter{}, notFoundf("voter not found")
	}
	if err != nil {
		return models.Voter{}, storage("load voter", err)
	}
	return v, nil
}

// markVoted flips the one-shot flag. Zero affected rows means another
// ballot got there first.
func markVoted(ctx context.Context, tx *sql.Tx, voterID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE voters SET has_voted = TRUE WHERE id = $1 AND has_voted = FALSE
	`, voterID)
	if err != nil {
		return storage("mark voted", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage("mark voted", err)
	}
	if n != 1 {
		return alreadyVoted()
	}
	return nil
}

func alreadyVoted() *Error {
	return &Error{Kind: KindConflict, Message: "voter has already voted", Reason: ballot.AlreadyVoted}
}

// ResetAll clears every voter's has_voted flag.
func (s *Service) ResetAll(ctx context.Context) error {
	return s.withTx(ctx, "reset voters", func(tx *sql.Tx) error {
		_, err := resetVoters(ctx, tx)
		return err
	})
}

func resetVoters(ctx context.Context, tx *sql.Tx) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE voters SET has_voted = FALSE WHERE has_voted = TRUE`)
	if err != nil {
		return 0, storage("reset voters", err)
	}
	return res.RowsAffected()
}

// CountVoters returns the number of registered voters.
func (s *Service) CountVoters(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM voters`).Scan(&n); err != nil {
		return 0, storage("count voters", err)
	}
	return n, nil
}
