// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VoterHandler struct {
	svc *election.Service
}

func NewVoterHandler(svc *election.Service) *VoterHandler {
	return &VoterHandler{svc: svc}
}

// Verify handles POST /verify-voter
func (h *VoterHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VoterCredentials
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voterID, err := h.svc.Verify(r.Context(), req.PhoneNumber, req.AccountNumber)
	if election.KindOf(err) == election.KindNotFound {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Voter not found")
		return
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VerifyVoterResponse{
		Envelope: models.OK(""),
		VoterID:  voterID,
	})
}

// Register handles POST /add-voter
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.VoterCredentials
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	voter, err := h.svc.RegisterVoter(r.Context(), req.PhoneNumber, req.AccountNumber)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddVoterResponse{
		Envelope: models.OK("Voter added"),
		Voter:    voter,
	})
}
