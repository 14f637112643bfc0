// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election_test

import (
	"database/sql"
	"testing"

	"go.uber.org/goleak"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newService(t *testing.T, opts ...election.Option) (*election.Service, *sql.DB) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return election.New(conn, db.SQLite, opts...), conn
}

// activePosition creates an active position with the given candidates and
// returns the position and candidate IDs.
func activePosition(t *testing.T, conn *sql.DB, name string, votesAllowed int, candidates ...string) (int64, []int64) {
	t.Helper()
	positionID := testutil.CreateTestPosition(t, conn, name, "active", votesAllowed)
	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, testutil.AddTestCandidate(t, conn, positionID, c, 0))
	}
	return positionID, ids
}

func hasVoted(t *testing.T, conn *sql.DB, voterID string) bool {
	t.Helper()
	var voted bool
	if err := conn.QueryRow(`SELECT has_voted FROM voters WHERE id = $1`, voterID).Scan(&voted); err != nil {
		t.Fatalf("failed to read has_voted: %v", err)
	}
	return voted
}

func voteCount(t *testing.T, conn *sql.DB, candidateID int64) int64 {
	t.Helper()
	var n int64
	if err := conn.QueryRow(`SELECT vote_count FROM candidates WHERE id = $1`, candidateID).Scan(&n); err != nil {
		t.Fatalf("failed to read vote_count: %v", err)
	}
	return n
}

func TestNewDefaultsToExactPolicy(t *testing.T) {
	svc, _ := newService(t)
	if svc.Policy() != ballot.PolicyExact {
		t.Errorf("expected exact policy, got %s", svc.Policy())
	}

	upTo, _ := newService(t, election.WithPolicy(ballot.PolicyUpTo))
	if upTo.Policy() != ballot.PolicyUpTo {
		t.Errorf("expected up-to policy, got %s", upTo.Policy())
	}
}
