// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the ballotbox API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	svc := election.New(conn, dialect, election.WithPolicy(cfg.Policy()))
	mux := router.NewRouter(svc, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics  (when cfg.Metrics is set)

Voters:

	POST /verify-voter - Resolve phone/account to a voter id
	POST /add-voter    - Register a voter (admin)

Position management (admin, requires X-Admin-Key):

	POST   /add-position          - Create position
	GET    /positions             - List positions
	POST   /add-candidate         - Add candidate
	GET    /get-candidates        - List candidates (?position=)
	DELETE /remove-candidate/{id} - Remove candidate
	GET    /get-position-name     - Position id and votes allowed (?name=)
	POST   /update-votes          - Set votes allowed
	POST   /voting/start          - Activate
	POST   /voting/stop           - Close and reset voters
	POST   /voting/poll-results   - Add paper results

Voting and results (public):

	GET  /voting/status     - Is the position active (?position_name=)
	POST /voting/get-active - Active position for a voter
	POST /voting/vote       - Cast a ballot
	GET  /voting/history    - Closed positions with tallies
	GET  /voting/live-stats - Participation and counts (?position_name=)
*/
package router
