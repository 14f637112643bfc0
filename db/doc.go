// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the relational store and creates its schema.

# Backends

Two dialects share one schema:

  - postgres: production, via github.com/lib/pq
  - sqlite: embedded and tests, via modernc.org/sqlite (pure Go)

	conn, err := db.Open(db.Postgres, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(conn, db.Postgres); err != nil {
		log.Fatal(err)
	}

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - voters: phone/account identity and the per-cycle has_voted flag
  - positions: offices and their lifecycle flags
  - candidates: per-position candidates and vote counters
  - ballot_receipts: one row per (voter, position) that accepted a ballot

# Relationships

	positions 1──* candidates
	voters    1──* ballot_receipts
	positions 1──* ballot_receipts

All foreign keys use ON DELETE CASCADE.

# Invariants Held by the Schema

  - idx_positions_single_active: a partial unique index on voting_active,
    so at most one position can be active at a time
  - a position is never both active and complete
  - vote_count never goes negative
  - (voter_id, position_id) is the primary key of ballot_receipts

# Locking

PostgreSQL transactions lock the voter row with SELECT ... FOR UPDATE
(see Dialect.ForUpdate). SQLite has no row locks, so Open limits the pool
to a single connection and begins transactions with BEGIN IMMEDIATE.

IsUniqueViolation recognizes constraint failures from both drivers.
*/
package db
