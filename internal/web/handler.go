// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zoneboard Contributors

// Package web exposes the Zoneboard HTTP API: signup, login, user and
// zoning listings, and the static frontend bundle.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/samber/oops"

	"github.com/zoneboard/zoneboard/internal/auth"
	"github.com/zoneboard/zoneboard/internal/observability"
	"github.com/zoneboard/zoneboard/internal/store"
	"github.com/zoneboard/zoneboard/pkg/errutil"
)

// Handler holds the dependencies for the API endpoints.
type Handler struct {
	auth    *auth.Service
	zones   store.ZoningRepository
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates an API handler. metrics may be nil when the
// observability server is disabled.
func NewHandler(authSvc *auth.Service, zones store.ZoningRepository, metrics *observability.Metrics, logger *slog.Logger) (*Handler, error) {
	if authSvc == nil {
		return nil, oops.Errorf("auth service cannot be nil")
	}
	if zones == nil {
		return nil, oops.Errorf("zoning repository cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{auth: authSvc, zones: zones, metrics: metrics, logger: logger}, nil
}

// credentialsRequest is the JSON body shared by signup and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	Username string `json:"username"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "signup", http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Username, req.Password)
	if err != nil {
		status := statusForError(err)
		errutil.LogError(h.logger, "signup failed", err)
		if status == http.StatusServiceUnavailable && errCode(err) == "PROVISION_FAILED" && h.metrics != nil {
			h.metrics.ProvisionFailures.Inc()
		}
		h.writeError(w, "signup", status, publicMessage(err, status))
		return
	}

	h.writeJSON(w, "signup", http.StatusCreated, userResponse{Username: user.Username})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "login", http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := statusForError(err)
		errutil.LogError(h.logger, "login failed", err)
		h.writeError(w, "login", status, publicMessage(err, status))
		return
	}

	http.SetCookie(w, auth.SessionCookie(token))
	h.record("login", http.StatusOK)
	w.WriteHeader(http.StatusOK)
}

// handleUsers lists known usernames. A store failure degrades to an
// empty list so the frontend keeps rendering.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.Users(r.Context())
	if err != nil {
		errutil.LogError(h.logger, "user listing failed", err)
		users = nil
	}

	names := make([]userResponse, 0, len(users))
	for _, u := range users {
		names = append(names, userResponse{Username: u.Username})
	}

	h.writeJSON(w, "users", http.StatusOK, names)
}

// handleZones lists zoning records, degrading to an empty list on
// store failure.
func (h *Handler) handleZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zones.ListZones(r.Context())
	if err != nil {
		errutil.LogError(h.logger, "zoning listing failed", err)
		zones = nil
	}
	if zones == nil {
		zones = []store.Zone{}
	}

	h.writeJSON(w, "db", http.StatusOK, zones)
}

func (h *Handler) writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	h.record(endpoint, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encoding failed", "endpoint", endpoint, "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, endpoint string, status int, msg string) {
	h.writeJSON(w, endpoint, status, errorResponse{Error: msg})
}

func (h *Handler) record(endpoint string, status int) {
	if h.metrics == nil {
		return
	}
	h.metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func errCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}

// statusForError maps service error codes to HTTP status codes.
func statusForError(err error) int {
	switch errCode(err) {
	case "AUTH_INVALID_USERNAME":
		return http.StatusBadRequest
	case "AUTH_USERNAME_TAKEN":
		return http.StatusConflict
	case "AUTH_INVALID_CREDENTIALS":
		return http.StatusUnauthorized
	case "AUTH_HASH_FAILED", "AUTH_LOGIN_FAILED":
		return http.StatusInternalServerError
	case "STORE_UNAVAILABLE", "PROVISION_FAILED":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the error text safe to show a client. Server
// side failures get a generic message so internals do not leak.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "service unavailable"
	}
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Error()
	}
	return err.Error()
}
