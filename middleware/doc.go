// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms), tags both with an X-Request-ID, and records the
ballotbox_api_* Prometheus metrics.

# Admin Routes

	mux.HandleFunc("POST /voting/start",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKeySalt, h.Start)))

Requests without a valid X-Admin-Key get 401.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Write an election error with the status that matches its kind:

	if err := h.svc.Activate(ctx, name); err != nil {
		middleware.WriteError(w, err)
		return
	}

Validation and state errors are 400, not found is 404, conflicts are 400
except an already-voted ballot which is 403, and storage failures are 500.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
