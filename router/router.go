// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/election"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/middleware"
)

func NewRouter(svc *election.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	voterHandler := handlers.NewVoterHandler(svc)
	positionHandler := handlers.NewPositionHandler(svc)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if cfg.Metrics {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Voter registry
	mux.HandleFunc("POST /verify-voter", middleware.WithLogging(voterHandler.Verify))
	mux.HandleFunc("POST /add-voter", admin(voterHandler.Register))

	// Position management (admin operations)
	mux.HandleFunc("POST /add-position", admin(positionHandler.AddPosition))
	mux.HandleFunc("GET /positions", admin(positionHandler.ListPositions))
	mux.HandleFunc("POST /add-candidate", admin(positionHandler.AddCandidate))
	mux.HandleFunc("GET /get-candidates", admin(positionHandler.GetCandidates))
	mux.HandleFunc("DELETE /remove-candidate/{id}", admin(positionHandler.RemoveCandidate))
	mux.HandleFunc("GET /get-position-name", admin(positionHandler.GetPosition))
	mux.HandleFunc("POST /update-votes", admin(positionHandler.UpdateVotes))

	// Lifecycle
	mux.HandleFunc("POST /voting/start", admin(votingHandler.Start))
	mux.HandleFunc("POST /voting/stop", admin(votingHandler.Stop))
	mux.HandleFunc("GET /voting/status", middleware.WithLogging(votingHandler.Status))

	// Voting (public)
	mux.HandleFunc("POST /voting/get-active", middleware.WithLogging(votingHandler.GetActive))
	mux.HandleFunc("POST /voting/vote", middleware.WithLogging(votingHandler.Vote))

	// Results
	mux.HandleFunc("GET /voting/history", middleware.WithLogging(resultsHandler.History))
	mux.HandleFunc("GET /voting/live-stats", middleware.WithLogging(resultsHandler.LiveStats))
	mux.HandleFunc("POST /voting/poll-results", admin(resultsHandler.PaperResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
