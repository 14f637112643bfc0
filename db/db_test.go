// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"postgres", Postgres, false},
		{"PostgreSQL", Postgres, false},
		{"sqlite", SQLite, false},
		{"sqlite3", SQLite, false},
		{"mysql", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDialect(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForUpdate(t *testing.T) {
	assert.Equal(t, " FOR UPDATE", Postgres.ForUpdate())
	assert.Equal(t, "", SQLite.ForUpdate())
}

func TestForShare(t *testing.T) {
	assert.Equal(t, " FOR SHARE", Postgres.ForShare())
	assert.Equal(t, "", SQLite.ForShare())
}

func TestSchemaFor(t *testing.T) {
	pg := SchemaFor(Postgres)
	assert.Contains(t, pg, "id SERIAL PRIMARY KEY")
	assert.NotContains(t, pg, "{{serial_pk}}")

	lite := SchemaFor(SQLite)
	assert.Contains(t, lite, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.NotContains(t, lite, "SERIAL")
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn, err := Open(SQLite, filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, CreateSchema(conn, SQLite))
	require.NoError(t, CreateSchema(conn, SQLite))

	for _, table := range []string{"voters", "positions", "candidates", "ballot_receipts"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
	}
}

func TestSingleActiveIndex(t *testing.T) {
	conn, err := Open(SQLite, filepath.Join(t.TempDir(), "active.db"))
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, CreateSchema(conn, SQLite))

	_, err = conn.Exec(`INSERT INTO positions (name, voting_active) VALUES ('President', TRUE)`)
	require.NoError(t, err)
	_, err = conn.Exec(`INSERT INTO positions (name, voting_active) VALUES ('Treasurer', FALSE)`)
	require.NoError(t, err)

	_, err = conn.Exec(`UPDATE positions SET voting_active = TRUE WHERE name = 'Treasurer'`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(assert.AnError))
	assert.False(t, IsUniqueViolation(nil))
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t,
		"/tmp/a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("/tmp/a.db"))
	assert.Equal(t,
		"file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate",
		sqliteDSN("sqlite://file:a.db?mode=rwc"))
	assert.Equal(t, "a.db?_pragma=foreign_keys(0)", sqliteDSN("a.db?_pragma=foreign_keys(0)"))
}
