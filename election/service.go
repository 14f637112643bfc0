// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/db"
)

// Service is the voting core. It holds no mutable voting state of its
// own: every operation reads and writes the store inside one transaction.
type Service struct {
	conn    *sql.DB
	dialect db.Dialect
	policy  ballot.Policy
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy sets the selection size policy. The default is ballot.PolicyExact.
func WithPolicy(p ballot.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func New(conn *sql.DB, dialect db.Dialect, opts ...Option) *Service {
	s := &Service{
		conn:    conn,
		dialect: dialect,
		policy:  ballot.PolicyExact,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the selection size policy in effect.
func (s *Service) Policy() ballot.Policy {
	return s.policy
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction and commits only if fn succeeds.
func (s *Service) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return storage(op+": begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return storage(op, err)
	}

	if err := tx.Commit(); err != nil {
		return storage(op+": commit", err)
	}
	return nil
}
