// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func newTestRouter(t *testing.T, cfg cliparse.Config) *http.ServeMux {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	return NewRouter(election.New(conn, db.SQLite), cfg)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ballotbox API v1", w.Body.String())
}

func TestUnknownPathNotFound(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	for _, path := range []string{"/nope", "/voting", "/voting/unknown"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.NotContains(t, w.Body.String(), "ballotbox API v1")
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, cfg)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ballotbox_")

	cfg.Metrics = false
	mux = newTestRouter(t, cfg)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.NotContains(t, w.Body.String(), "ballotbox_")
}

func TestRouteExistence(t *testing.T) {
	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, cfg)

	// 400 and 404 are valid handler responses; 405 means no route.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"POST", "/verify-voter"},
		{"POST", "/add-voter"},
		{"POST", "/add-position"},
		{"GET", "/positions"},
		{"POST", "/add-candidate"},
		{"GET", "/get-candidates"},
		{"DELETE", "/remove-candidate/1"},
		{"GET", "/get-position-name"},
		{"POST", "/update-votes"},
		{"POST", "/voting/start"},
		{"POST", "/voting/stop"},
		{"GET", "/voting/status"},
		{"POST", "/voting/get-active"},
		{"POST", "/voting/vote"},
		{"GET", "/voting/history"},
		{"GET", "/voting/live-stats"},
		{"POST", "/voting/poll-results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutil.MakeRequest(tc.method, tc.path, nil, testutil.AdminHeaders(cfg))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.NotEqual(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/add-voter"},
		{"POST", "/add-position"},
		{"GET", "/positions"},
		{"POST", "/add-candidate"},
		{"GET", "/get-candidates?position=Chair"},
		{"DELETE", "/remove-candidate/1"},
		{"GET", "/get-position-name?name=Chair"},
		{"POST", "/update-votes"},
		{"POST", "/voting/start"},
		{"POST", "/voting/stop"},
		{"POST", "/voting/poll-results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := testutil.MakeRequest(tc.method, tc.path, nil, map[string]string{"X-Admin-Key": "wrong"})
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"GET", "/voting/vote"},
		{"PUT", "/add-candidate"},
		{"GET", "/remove-candidate/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		})
	}
}

// TestFullElectionWorkflow drives one position through configuring,
// active and closed, then a second position in the next cycle.
func TestFullElectionWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig()
	mux := newTestRouter(t, cfg)
	admin := testutil.AdminHeaders(cfg)

	do := func(t *testing.T, method, path string, body interface{}, headers map[string]string, expected int) *httptest.ResponseRecorder {
		t.Helper()
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, headers))
		testutil.AssertStatus(t, w, expected)
		return w
	}

	// Register voters
	voters := make([]string, 4)
	for i := range voters {
		creds := models.VoterCredentials{PhoneNumber: fmt.Sprintf("555-000-%04d", i), AccountNumber: fmt.Sprintf("1000%d", i)}
		do(t, "POST", "/add-voter", creds, admin, http.StatusCreated)

		var verified models.VerifyVoterResponse
		testutil.AssertJSON(t, do(t, "POST", "/verify-voter", creds, nil, http.StatusOK), &verified)
		voters[i] = verified.VoterID
	}

	// Configure the position
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		do(t, "POST", "/add-candidate", models.AddCandidateRequest{PositionName: "Board", Name: name}, admin, http.StatusOK)
	}
	var config models.PositionConfigResponse
	testutil.AssertJSON(t, do(t, "GET", "/get-position-name?name=Board", nil, admin, http.StatusOK), &config)
	do(t, "POST", "/update-votes", models.UpdateVotesRequest{PositionID: config.ID, NumVotesAllowed: 2}, admin, http.StatusOK)

	var candidates models.CandidatesResponse
	testutil.AssertJSON(t, do(t, "GET", "/get-candidates?position=Board", nil, admin, http.StatusOK), &candidates)
	require.Len(t, candidates.Candidates, 3)
	alice, bob, carol := candidates.Candidates[0].ID, candidates.Candidates[1].ID, candidates.Candidates[2].ID

	// Voting is closed until started
	do(t, "POST", "/voting/vote", models.CastVoteRequest{VoterID: voters[0], PositionName: "Board", CandidateIDs: []int64{alice, bob}}, nil, http.StatusBadRequest)
	do(t, "POST", "/voting/start", models.VotingControlRequest{PositionName: "Board"}, admin, http.StatusOK)

	var status models.VotingStatusResponse
	testutil.AssertJSON(t, do(t, "GET", "/voting/status?position_name=Board", nil, nil, http.StatusOK), &status)
	assert.True(t, status.VotingActive)

	var snap models.ActiveSnapshotResponse
	testutil.AssertJSON(t, do(t, "POST", "/voting/get-active", models.GetActiveRequest{VoterID: voters[0]}, nil, http.StatusOK), &snap)
	require.NotNil(t, snap.Position)
	assert.Equal(t, 2, snap.NumVotesAllowed)
	assert.False(t, snap.HasVoted)

	// Three of four voters vote
	selections := [][]int64{{alice, bob}, {alice, carol}, {alice, bob}}
	for i, sel := range selections {
		do(t, "POST", "/voting/vote", models.CastVoteRequest{VoterID: voters[i], PositionName: "Board", CandidateIDs: sel}, nil, http.StatusOK)
	}
	do(t, "POST", "/voting/vote", models.CastVoteRequest{VoterID: voters[0], PositionName: "Board", CandidateIDs: []int64{bob, carol}}, nil, http.StatusForbidden)

	var stats models.LiveStatsResponse
	testutil.AssertJSON(t, do(t, "GET", "/voting/live-stats?position_name=Board", nil, nil, http.StatusOK), &stats)
	assert.Equal(t, 3, stats.VotersWhoVoted)
	assert.Equal(t, 4, stats.TotalVoters)
	assert.Equal(t, 75, stats.Percent)
	assert.Equal(t, int64(3), stats.Candidates[0].VoteCount)

	// Close, add paper results, read history
	do(t, "POST", "/voting/stop", models.VotingControlRequest{PositionName: "Board"}, admin, http.StatusOK)
	do(t, "POST", "/voting/poll-results", models.PaperResultsBatch{"Board": {{CandidateName: "Carol", Count: 4}}}, admin, http.StatusOK)

	var history models.HistoryResponse
	testutil.AssertJSON(t, do(t, "GET", "/voting/history", nil, nil, http.StatusOK), &history)
	require.Len(t, history.History, 1)
	assert.True(t, history.History[0].PaperResultsAdded)
	assert.Equal(t, "Carol", history.History[0].Candidates[0].Name)
	assert.Equal(t, int64(5), history.History[0].Candidates[0].VoteCount)

	// Next cycle: the same voter may vote for a new position
	do(t, "POST", "/add-candidate", models.AddCandidateRequest{PositionName: "Chair", Name: "Dave"}, admin, http.StatusOK)
	var dave models.AddCandidateResponse
	testutil.AssertJSON(t, do(t, "POST", "/add-candidate", models.AddCandidateRequest{PositionName: "Chair", Name: "Erin"}, admin, http.StatusOK), &dave)
	do(t, "POST", "/update-votes", models.UpdateVotesRequest{PositionID: dave.Candidate.PositionID, NumVotesAllowed: 1}, admin, http.StatusOK)
	do(t, "POST", "/voting/start", models.VotingControlRequest{PositionName: "Chair"}, admin, http.StatusOK)
	do(t, "POST", "/voting/vote", models.CastVoteRequest{VoterID: voters[0], PositionName: "Chair", CandidateIDs: []int64{dave.Candidate.ID}}, nil, http.StatusOK)

	w := do(t, "POST", "/voting/start", models.VotingControlRequest{PositionName: "Board"}, admin, http.StatusBadRequest)
	assert.Contains(t, w.Body.String(), "Chair")
}
