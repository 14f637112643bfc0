// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect Dialect) error {
	_, err := db.Exec(SchemaFor(dialect))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SchemaFor renders the schema for a dialect. Only the auto-increment
// primary key differs between PostgreSQL and SQLite.
func SchemaFor(dialect Dialect) string {
	pk := "SERIAL PRIMARY KEY"
	if dialect == SQLite {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return strings.ReplaceAll(schema, "{{serial_pk}}", pk)
}

const schema = `
-- Voters
CREATE TABLE IF NOT EXISTS voters (
    id TEXT PRIMARY KEY,
    phone_number TEXT NOT NULL,
    account_number TEXT NOT NULL,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (phone_number, account_number)
);

-- Positions
CREATE TABLE IF NOT EXISTS positions (
    id {{serial_pk}},
    name TEXT NOT NULL UNIQUE,
    num_votes_allowed INTEGER CHECK (num_votes_allowed IS NULL OR num_votes_allowed > 0),
    voting_active BOOLEAN NOT NULL DEFAULT FALSE,
    voting_complete BOOLEAN NOT NULL DEFAULT FALSE,
    paper_results_added BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (NOT (voting_active AND voting_complete))
);

-- At most one position may be active platform-wide
CREATE UNIQUE INDEX IF NOT EXISTS idx_positions_single_active ON positions(voting_active) WHERE voting_active;

-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id {{serial_pk}},
    position_id INTEGER NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    occupation TEXT NOT NULL DEFAULT '',
    vote_count INTEGER NOT NULL DEFAULT 0 CHECK (vote_count >= 0),
    UNIQUE (position_id, name)
);

CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id);

-- Ballot receipts: who voted on which position, never what they chose
CREATE TABLE IF NOT EXISTS ballot_receipts (
    voter_id TEXT NOT NULL REFERENCES voters(id) ON DELETE CASCADE,
    position_id INTEGER NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (voter_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_receipts_position_id ON ballot_receipts(position_id);
`
