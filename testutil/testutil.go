// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
)

// TestAdminSalt is the admin key salt used by GetTestConfig
const TestAdminSalt = "test-admin-salt"

// SetupTestDB creates a fresh SQLite database with the full schema in the
// test's temp directory. It is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "ballotbox.db"))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.CreateSchema(conn, db.SQLite), "failed to create schema")
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file::memory:",
		DatabaseType:    string(db.SQLite),
		AdminKeySalt:    TestAdminSalt,
		SelectionPolicy: "exact",
		Metrics:         true,
	}
}

// AdminHeaders returns headers carrying a valid admin key for cfg
func AdminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		"X-Admin-Key": auth.GenerateAdminKey(auth.AdminScope, cfg.AdminKeySalt),
	}
}

// CreateTestPosition inserts a position and returns its ID.
// state should be "configuring", "active", or "closed"; votesAllowed of 0
// leaves num_votes_allowed unset.
func CreateTestPosition(t *testing.T, conn *sql.DB, name, state string, votesAllowed int) int64 {
	t.Helper()

	allowed := sql.NullInt64{Int64: int64(votesAllowed), Valid: votesAllowed > 0}

	var id int64
	err := conn.QueryRow(`
		INSERT INTO positions (name, num_votes_allowed, voting_active, voting_complete, paper_results_added)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id
	`, name, allowed, state == "active", state == "closed").Scan(&id)
	require.NoError(t, err, "failed to create test position")

	return id
}

// AddTestCandidate adds a candidate to a position and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, positionID int64, name string, votes int64) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO candidates (position_id, name, occupation, vote_count)
		VALUES ($1, $2, 'Engineer', $3)
		RETURNING id
	`, positionID, name, votes).Scan(&id)
	require.NoError(t, err, "failed to create test candidate")

	return id
}

// CreateTestVoter registers a voter and returns its ID
func CreateTestVoter(t *testing.T, conn *sql.DB, phone, account string, hasVoted bool) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO voters (id, phone_number, account_number, has_voted)
		VALUES ($1, $2, $3, $4)
	`, id, phone, account, hasVoted)
	require.NoError(t, err, "failed to create test voter")

	return id
}

// RecordTestReceipt marks that a voter cast a ballot for a position
func RecordTestReceipt(t *testing.T, conn *sql.DB, voterID string, positionID int64) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO ballot_receipts (voter_id, position_id) VALUES ($1, $2)
	`, voterID, positionID)
	require.NoError(t, err, "failed to create test receipt")
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	require.Equalf(t, expected, w.Code, "unexpected status. Body: %s", w.Body.String())
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(v), "failed to decode JSON response")
}
