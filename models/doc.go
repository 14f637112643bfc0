// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Envelope

Every response carries success and an optional message:

	{"success": true, "message": "Voting started"}

Response types embed Envelope so their fields sit alongside it.

# Request Types

  - VoterCredentials: phone_number, account_number
  - AddPositionRequest: name
  - AddCandidateRequest: position_name, name, occupation
  - UpdateVotesRequest: position_id, num_votes_allowed
  - VotingControlRequest: position_name
  - GetActiveRequest: voter_id
  - CastVoteRequest: voter_id, position_name, candidate_ids
  - PaperResultsBatch: position name -> [{candidateName, count}]

# Domain Types

  - Voter: identity and the per-cycle has_voted flag
  - Position: office and lifecycle flags, with a derived State
  - Candidate: per-position candidate and vote_count
  - ActiveSnapshot: the active position as a voter sees it
  - LiveStats: participation and per-candidate counts
  - HistoryEntry: a closed position with its final tallies

# Position States

	StateConfiguring = "configuring"
	StateActive      = "active"
	StateClosed      = "closed"
*/
package models
