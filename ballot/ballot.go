// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"fmt"
	"strconv"
	"strings"
)

// Reason explains why a ballot was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	AlreadyVoted
	NotActive
	WrongCount
	DuplicateCandidate
	UnknownCandidate
)

var reasonNames = map[Reason]string{
	ReasonNone:         "none",
	AlreadyVoted:       "already_voted",
	NotActive:          "not_active",
	WrongCount:         "wrong_count",
	DuplicateCandidate: "duplicate_candidate",
	UnknownCandidate:   "unknown_candidate",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "reason(" + strconv.Itoa(int(r)) + ")"
}

// Policy selects how the size of a selection is checked against
// the number of votes a position allows.
type Policy string

const (
	// PolicyExact requires exactly num_votes_allowed selections.
	PolicyExact Policy = "exact"
	// PolicyUpTo accepts between 1 and num_votes_allowed selections.
	PolicyUpTo Policy = "up-to"
)

// ParsePolicy parses a policy name. The empty string means PolicyExact.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyExact:
		return PolicyExact, nil
	case PolicyUpTo, "upto":
		return PolicyUpTo, nil
	default:
		return "", fmt.Errorf("unknown selection policy %q", s)
	}
}

// Voter is the slice of voter state the validator needs.
type Voter struct {
	ID       string
	HasVoted bool
}

// Position is the slice of position state the validator needs.
// VotesAllowed is zero when the position has no limit configured.
type Position struct {
	ID           int64
	Active       bool
	VotesAllowed int
	Candidates   []int64
}

// Decision is the outcome of Validate.
type Decision struct {
	Accepted bool
	Reason   Reason
	Detail   string
}

// Err returns nil for an accepted ballot and a *Rejection otherwise.
func (d Decision) Err() error {
	if d.Accepted {
		return nil
	}
	return &Rejection{Reason: d.Reason, Detail: d.Detail}
}

// Rejection is the error form of a rejected Decision.
type Rejection struct {
	Reason Reason
	Detail string
}

func (e *Rejection) Error() string {
	if e.Detail == "" {
		return "ballot rejected: " + e.Reason.String()
	}
	return "ballot rejected: " + e.Detail
}

func accept() Decision {
	return Decision{Accepted: true}
}

func reject(reason Reason, format string, args ...any) Decision {
	return Decision{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Validate decides whether voter may cast selection for position.
// Checks run in a fixed order so the first failing rule is the one reported.
func Validate(voter Voter, position Position, selection []int64, policy Policy) Decision {
	if voter.HasVoted {
		return reject(AlreadyVoted, "voter has already voted")
	}
	if !position.Active {
		return reject(NotActive, "voting is not active for this position")
	}

	allowed := position.VotesAllowed
	n := len(selection)
	switch policy {
	case PolicyUpTo:
		if n == 0 || n > allowed {
			return reject(WrongCount, "select between 1 and %d candidates, got %d", allowed, n)
		}
	default:
		if n != allowed {
			return reject(WrongCount, "select exactly %d candidates, got %d", allowed, n)
		}
	}

	seen := make(map[int64]struct{}, n)
	for _, id := range selection {
		if _, dup := seen[id]; dup {
			return reject(DuplicateCandidate, "candidate %d selected more than once", id)
		}
		seen[id] = struct{}{}
	}

	valid := make(map[int64]struct{}, len(position.Candidates))
	for _, id := range position.Candidates {
		valid[id] = struct{}{}
	}
	for _, id := range selection {
		if _, ok := valid[id]; !ok {
			return reject(UnknownCandidate, "candidate %d does not belong to this position", id)
		}
	}

	return accept()
}
