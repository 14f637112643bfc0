// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestLiveStats(t *testing.T) {
	svc, conn, _ := setup(t)
	handler := NewResultsHandler(svc)
	chair := testutil.CreateTestPosition(t, conn, "Chair", "active", 1)
	testutil.AddTestCandidate(t, conn, chair, "Alice", 2)
	testutil.AddTestCandidate(t, conn, chair, "Bob", 1)
	for i, phone := range []string{"5550001", "5550002", "5550003", "5550004"} {
		voter := testutil.CreateTestVoter(t, conn, phone, fmt.Sprintf("1000%d", i+1), i < 3)
		if i < 3 {
			testutil.RecordTestReceipt(t, conn, voter, chair)
		}
	}

	w := httptest.NewRecorder()
	handler.LiveStats(w, testutil.MakeRequest("GET", "/voting/live-stats?position_name=Chair", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LiveStatsResponse
	testutil.AssertJSON(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.VotersWhoVoted)
	assert.Equal(t, 4, resp.TotalVoters)
	assert.Equal(t, 75, resp.Percent)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "Alice", resp.Candidates[0].Name)

	w = httptest.NewRecorder()
	handler.LiveStats(w, testutil.MakeRequest("GET", "/voting/live-stats", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	handler.LiveStats(w, testutil.MakeRequest("GET", "/voting/live-stats?position_name=Nobody", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestHistory(t *testing.T) {
	svc, conn, _ := setup(t)
	handler := NewResultsHandler(svc)

	w := httptest.NewRecorder()
	handler.History(w, testutil.MakeRequest("GET", "/voting/history", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Body.String(), `"history":[]`)

	closed := testutil.CreateTestPosition(t, conn, "Chair", "closed", 1)
	testutil.AddTestCandidate(t, conn, closed, "Alice", 1)
	testutil.AddTestCandidate(t, conn, closed, "Bob", 5)
	testutil.CreateTestPosition(t, conn, "Treasurer", "active", 1)

	w = httptest.NewRecorder()
	handler.History(w, testutil.MakeRequest("GET", "/voting/history", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.HistoryResponse
	testutil.AssertJSON(t, w, &resp)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "Chair", resp.History[0].Name)
	assert.Equal(t, "Bob", resp.History[0].Candidates[0].Name)
}

func TestPaperResults(t *testing.T) {
	svc, conn, _ := setup(t)
	handler := NewResultsHandler(svc)
	closed := testutil.CreateTestPosition(t, conn, "Chair", "closed", 1)
	testutil.AddTestCandidate(t, conn, closed, "Alice", 1)
	testutil.CreateTestPosition(t, conn, "Treasurer", "configuring", 1)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown position", `{"Mayor":[{"candidateName":"Zed","count":1}]}`, http.StatusNotFound},
		{"not closed", `{"Treasurer":[]}`, http.StatusBadRequest},
		{"negative", `{"Chair":[{"candidateName":"Alice","count":-1}]}`, http.StatusBadRequest},
		{"accepted", `{"Chair":[{"candidateName":"Alice","count":4}]}`, http.StatusOK},
		{"second batch", `{"Chair":[{"candidateName":"Alice","count":4}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/voting/poll-results", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.PaperResults(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	candidates, err := svc.Candidates(t.Context(), "Chair")
	require.NoError(t, err)
	assert.Equal(t, int64(5), candidates[0].VoteCount)
}
