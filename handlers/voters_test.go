// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestVerifyVoter(t *testing.T) {
	svc, conn, _ := setup(t)
	handler := NewVoterHandler(svc)
	voterID := testutil.CreateTestVoter(t, conn, "5551234567", "12345", false)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"known voter", models.VoterCredentials{PhoneNumber: "555-123-4567", AccountNumber: "12345"}, http.StatusOK},
		{"unknown voter", models.VoterCredentials{PhoneNumber: "5551234567", AccountNumber: "99999"}, http.StatusUnauthorized},
		{"missing fields", models.VoterCredentials{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Verify(w, testutil.MakeRequest("POST", "/verify-voter", tt.body, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var resp models.VerifyVoterResponse
				testutil.AssertJSON(t, w, &resp)
				assert.True(t, resp.Success)
				assert.Equal(t, voterID, resp.VoterID)
			}
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/verify-voter", strings.NewReader("{"))
		handler.Verify(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestRegisterVoter(t *testing.T) {
	svc, _, _ := setup(t)
	handler := NewVoterHandler(svc)
	body := models.VoterCredentials{PhoneNumber: "(555) 765-4321", AccountNumber: "54321"}

	w := httptest.NewRecorder()
	handler.Register(w, testutil.MakeRequest("POST", "/add-voter", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AddVoterResponse
	testutil.AssertJSON(t, w, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Voter.ID)
	assert.Equal(t, "5557654321", resp.Voter.PhoneNumber)

	w = httptest.NewRecorder()
	handler.Register(w, testutil.MakeRequest("POST", "/add-voter", body, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	assert.False(t, decodeError(t, w.Body.Bytes()).Success)

	w = httptest.NewRecorder()
	handler.Register(w, testutil.MakeRequest("POST", "/add-voter", models.VoterCredentials{PhoneNumber: "5557654321", AccountNumber: "1"}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
