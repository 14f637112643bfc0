// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type ResultsHandler struct {
	svc *election.Service
}

func NewResultsHandler(svc *election.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// History handles GET /voting/history
func (h *ResultsHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.ListHistory(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HistoryResponse{
		Envelope: models.OK(""),
		History:  history,
	})
}

// LiveStats handles GET /voting/live-stats?position_name=
func (h *ResultsHandler) LiveStats(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("position_name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position_name is required")
		return
	}

	stats, err := h.svc.LiveStats(r.Context(), name)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LiveStatsResponse{
		Envelope:  models.OK(""),
		LiveStats: stats,
	})
}

// PaperResults handles POST /voting/poll-results
func (h *ResultsHandler) PaperResults(w http.ResponseWriter, r *http.Request) {
	var batch models.PaperResultsBatch
	if err := middleware.ParseJSONBody(r, &batch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.RecordPaperResults(r.Context(), batch); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OK("Paper results added"))
}
