// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the ballotbox command.

ballotbox runs one election at a time: positions are configured, opened
one by one, voted on by registered voters and closed into a history
archive.

# Starting the Server

	ADMIN_KEY_SALT=... DATABASE_URL=postgres://... ballotbox serve

Or with SQLite and flags:

	ballotbox serve -p 3318 -d ballotbox.db --admin-salt dev-salt

Running ballotbox without a subcommand is the same as serve.

# Other Commands

	ballotbox voters import voters.csv
	ballotbox paper-results import paper.yaml
	ballotbox admin-key

The paper results file maps position names to tallies:

	Chair:
	  - candidate: Alice
	    count: 12

# Configuration

Flags override environment variables, which override a .env file in the
working directory (BALLOTBOX_ENV_FILE names another file).

Required settings:

  - DATABASE_URL (-d): PostgreSQL URL or SQLite file path
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite, inferred from the URL
  - SELECTION_POLICY (--selection-policy): exact (default) or up-to
  - METRICS (--metrics): serve /metrics (default: true)
  - --debug (-D): debug logging with source locations

# Architecture

  - ballot: pure ballot validation
  - election: the voting core (registry, lifecycle, tally, history)
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin key check, JSON helpers
  - models: Request/response types
  - auth: Admin key and IP hashing
  - db: Dialects and schema creation
  - metrics: Prometheus collectors
  - cliparse: Configuration parsing
*/
package main
