// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the ballotbox API.

# Handler Types

Each handler is a thin struct over the election service:

  - VoterHandler: voter login and registration
  - PositionHandler: positions, candidates and votes allowed
  - VotingHandler: lifecycle control and ballot casting
  - ResultsHandler: live statistics, history and paper results

	svc := election.New(conn, db.SQLite)
	votingHandler := handlers.NewVotingHandler(svc, cfg)

Handlers decode the request, call one service operation and write the
result. Errors go through middleware.WriteError, which picks the status
from the error kind.

# Position Lifecycle

Positions progress through three states: configuring → active → closed

	POST /add-position   → AddPosition
	POST /add-candidate  → AddCandidate (creates the position if needed)
	POST /update-votes   → UpdateVotes
	POST /voting/start   → Start (only one position may be active)
	POST /voting/stop    → Stop (resets has_voted for every voter)

These routes require the X-Admin-Key header.

# Voting Flow

	POST /verify-voter     → Verify (returns voter_id, 401 if unknown)
	POST /voting/get-active → GetActive
	POST /voting/vote      → Vote (403 if the voter already voted)

# Results

	GET  /voting/live-stats?position_name= → LiveStats
	GET  /voting/history                   → History
	POST /voting/poll-results              → PaperResults (closed positions only)
*/
package handlers
