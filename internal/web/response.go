// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/glowgirl/glowgirl/internal/auth"
)

// Success messages.
const (
	MsgRegistered = "Registration successful"
	MsgLoggedIn   = "Login successful"
	MsgLoggedOut  = "Logout successful"
	MsgHealthy    = "Backend is working! ✨"
)

// Errors produced by the transport itself.
const (
	MsgRouteNotFound    = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    auth.PublicView `json:"user"`
}

type userResponse struct {
	User auth.PublicView `json:"user"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind auth.Kind) int {
	switch kind {
	case auth.KindValidation, auth.KindConflict:
		return http.StatusBadRequest
	case auth.KindAuthentication, auth.KindInvalidToken:
		return http.StatusUnauthorized
	case auth.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to write response body", "error", err)
	}
}

// writeError renders err with its kind's status and public message.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(auth.KindOf(err)), errorResponse{Error: auth.PublicMessage(err)})
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
