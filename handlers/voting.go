// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type VotingHandler struct {
	svc *election.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *election.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// Start handles POST /voting/start
func (h *VotingHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.VotingControlRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.Activate(r.Context(), req.PositionName); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OK("Voting started"))
}

// Stop handles POST /voting/stop
func (h *VotingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	var req models.VotingControlRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.Deactivate(r.Context(), req.PositionName); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OK("Voting stopped"))
}

// Status handles GET /voting/status?position_name=
func (h *VotingHandler) Status(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("position_name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_name is required")
		return
	}

	active, err := h.svc.Status(r.Context(), name)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VotingStatusResponse{
		Envelope:     models.OK(""),
		VotingActive: active,
	})
}

// GetActive handles POST /voting/get-active
func (h *VotingHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	var req models.GetActiveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	snap, err := h.svc.ActiveSnapshot(r.Context(), req.VoterID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActiveSnapshotResponse{
		Envelope:       models.OK(""),
		ActiveSnapshot: snap,
	})
}

// Vote handles POST /voting/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)

	if err := h.svc.CastBallot(r.Context(), req.VoterID, req.PositionName, req.CandidateIDs); err != nil {
		slog.Warn("ballot rejected",
			"position", req.PositionName,
			"reason", election.ReasonOf(err).String(),
			"ip_hash", ipHash,
		)
		middleware.WriteError(w, err)
		return
	}

	slog.Info("ballot accepted", "position", req.PositionName, "ip_hash", ipHash)
	middleware.JSONResponse(w, http.StatusOK, models.OK("Vote recorded"))
}
