// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type PositionHandler struct {
	svc *election.Service
}

func NewPositionHandler(svc *election.Service) *PositionHandler {
	return &PositionHandler{svc: svc}
}

// AddPosition handles POST /add-position
func (h *PositionHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	var req models.AddPositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	p, err := h.svc.CreatePosition(r.Context(), req.Name)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.PositionResponse{
		Envelope: models.OK("Position created"),
		Position: p,
	})
}

// ListPositions handles GET /positions
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.Positions(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PositionsResponse{
		Envelope:  models.OK(""),
		Positions: positions,
	})
}

// AddCandidate handles POST /add-candidate
func (h *PositionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	c, err := h.svc.AddCandidate(r.Context(), req.PositionName, req.Name, req.Occupation)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AddCandidateResponse{
		Envelope:  models.OK("Candidate added"),
		Candidate: c,
	})
}

// GetCandidates handles GET /get-candidates?position=
func (h *PositionHandler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("position")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position is required")
		return
	}

	candidates, err := h.svc.Candidates(r.Context(), name)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidatesResponse{
		Envelope:   models.OK(""),
		Candidates: candidates,
	})
}

// RemoveCandidate handles DELETE /remove-candidate/{id}
func (h *PositionHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate id must be a positive integer")
		return
	}

	if err := h.svc.RemoveCandidate(r.Context(), id); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OK("Candidate removed"))
}

// GetPosition handles GET /get-position-name?name=
func (h *PositionHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	p, err := h.svc.Position(r.Context(), name)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PositionConfigResponse{
		Envelope:        models.OK(""),
		ID:              p.ID,
		NumVotesAllowed: p.NumVotesAllowed,
	})
}

// UpdateVotes handles POST /update-votes
func (h *PositionHandler) UpdateVotes(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PositionID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}

	if err := h.svc.SetVotesAllowed(r.Context(), req.PositionID, req.NumVotesAllowed); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OK("Votes allowed updated"))
}
