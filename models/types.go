package models

// Position states, derived from the voting_active and voting_complete flags
const (
	StateConfiguring = "configuring"
	StateActive      = "active"
	StateClosed      = "closed"
)

// Envelope is embedded in every response body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK returns a successful envelope with an optional message.
func OK(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Request types

type VoterCredentials struct {
	PhoneNumber   string `json:"phone_number"`
	AccountNumber string `json:"account_number"`
}

type AddPositionRequest struct {
	Name string `json:"name"`
}

type AddCandidateRequest struct {
	PositionName string `json:"position_name"`
	Name         string `json:"name"`
	Occupation   string `json:"occupation"`
}

type UpdateVotesRequest struct {
	PositionID      int64 `json:"position_id"`
	NumVotesAllowed int   `json:"num_votes_allowed"`
}

type VotingControlRequest struct {
	PositionName string `json:"position_name"`
}

type GetActiveRequest struct {
	VoterID string `json:"voter_id"`
}

type CastVoteRequest struct {
	VoterID      string  `json:"voter_id"`
	PositionName string  `json:"position_name"`
	CandidateIDs []int64 `json:"candidate_ids"`
}

// PaperResult is one manually counted tally for a candidate.
type PaperResult struct {
	CandidateName string `json:"candidateName" yaml:"candidate"`
	Count         int64  `json:"count"         yaml:"count"`
}

// PaperResultsBatch maps position name -> paper tallies for its candidates.
type PaperResultsBatch map[string][]PaperResult

// Response types

type VerifyVoterResponse struct {
	Envelope
	VoterID string `json:"voter_id"`
}

type AddVoterResponse struct {
	Envelope
	Voter Voter `json:"voter"`
}

type PositionResponse struct {
	Envelope
	Position Position `json:"position"`
}

type PositionsResponse struct {
	Envelope
	Positions []Position `json:"positions"`
}

type AddCandidateResponse struct {
	Envelope
	Candidate Candidate `json:"candidate"`
}

type CandidatesResponse struct {
	Envelope
	Candidates []Candidate `json:"candidates"`
}

type PositionConfigResponse struct {
	Envelope
	ID              int64 `json:"id"`
	NumVotesAllowed *int  `json:"num_votes_allowed"`
}

type VotingStatusResponse struct {
	Envelope
	VotingActive bool `json:"voting_active"`
}

type ActiveSnapshotResponse struct {
	Envelope
	ActiveSnapshot
}

type HistoryResponse struct {
	Envelope
	History []HistoryEntry `json:"history"`
}

type LiveStatsResponse struct {
	Envelope
	LiveStats
}

// Domain types

type Voter struct {
	ID            string `json:"id"`
	PhoneNumber   string `json:"phone_number"`
	AccountNumber string `json:"account_number"`
	HasVoted      bool   `json:"has_voted"`
}

type Position struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	NumVotesAllowed   *int   `json:"num_votes_allowed"`
	VotingActive      bool   `json:"voting_active"`
	VotingComplete    bool   `json:"voting_complete"`
	PaperResultsAdded bool   `json:"paper_results_added"`
	State             string `json:"state"`
}

// StateOf derives the lifecycle state from the position flags.
func StateOf(active, complete bool) string {
	switch {
	case complete:
		return StateClosed
	case active:
		return StateActive
	default:
		return StateConfiguring
	}
}

type Candidate struct {
	ID         int64  `json:"id"`
	PositionID int64  `json:"position_id"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
	VoteCount  int64  `json:"vote_count"`
}

// ActiveSnapshot is what a voter sees of the currently active position.
// Position is nil when no position is active.
type ActiveSnapshot struct {
	Position        *Position   `json:"position"`
	NumVotesAllowed int         `json:"num_votes_allowed"`
	Candidates      []Candidate `json:"candidates"`
	HasVoted        bool        `json:"has_voted"`
}

type LiveStats struct {
	PositionName   string      `json:"position_name"`
	VotersWhoVoted int         `json:"voters_who_voted"`
	TotalVoters    int         `json:"total_voters"`
	Percent        int         `json:"percent"`
	Candidates     []Candidate `json:"candidates"`
}

type HistoryEntry struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	VotingComplete    bool        `json:"voting_complete"`
	PaperResultsAdded bool        `json:"paper_results_added"`
	Candidates        []Candidate `json:"candidates"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
