// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/ballotbox/ballot"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindState
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is returned by every Service operation that fails.
// Reason is set only for rejected ballots.
type Error struct {
	Kind    Kind
	Message string
	Reason  ballot.Reason
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindStorage {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind, so errors.Is(err, ErrNotFound) holds for
// any not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrState      = &Error{Kind: KindState}
	ErrStorage    = &Error{Kind: KindStorage}
)

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func statef(format string, args ...any) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

// storage wraps a driver error. Errors that are already *Error pass through
// untouched so a failure raised inside a transaction keeps its kind.
func storage(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStorage, Message: op, Err: err}
}

// rejected converts a ballot rejection into the matching error kind.
func rejected(d ballot.Decision) *Error {
	kind := KindValidation
	switch d.Reason {
	case ballot.AlreadyVoted:
		kind = KindConflict
	case ballot.NotActive:
		kind = KindState
	}
	return &Error{Kind: kind, Message: d.Detail, Reason: d.Reason, Err: d.Err()}
}

// KindOf returns the kind of err, or zero if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ReasonOf returns the ballot rejection reason carried by err, if any.
func ReasonOf(err error) ballot.Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ballot.ReasonNone
}
