// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/glowgirl/glowgirl/internal/auth"
	"github.com/glowgirl/glowgirl/internal/observability"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AuthService is the part of auth.Service the handlers call.
type AuthService interface {
	Register(ctx context.Context, params auth.RegisterParams) (*auth.Result, error)
	Login(ctx context.Context, params auth.LoginParams) (*auth.Result, error)
	WhoAmI(ctx context.Context, accountID ulid.ULID) (auth.PublicView, error)
	Logout(ctx context.Context, accountID ulid.ULID) error
}

type handlers struct {
	service AuthService
	metrics *observability.Metrics
	logger  *slog.Logger
}

// decodeBody reads a JSON object into dst. Anything that is not a JSON
// object with string fields fails.
func decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	//nolint:wrapcheck // caller maps every decode failure to one validation error
	return dec.Decode(dst)
}

func (h *handlers) record(op string, err error) {
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = auth.KindOf(err).String()
	}
	h.metrics.RecordAuthOperation(op, outcome)
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var params auth.RegisterParams
	if err := decodeBody(r, w, &params); err != nil {
		h.logger.DebugContext(r.Context(), "register body rejected", "error", err)
		verr := auth.ValidationError("", auth.MsgMissingFields)
		h.record(auth.OpRegister, verr)
		writeError(w, verr)
		return
	}

	result, err := h.service.Register(r.Context(), params)
	h.record(auth.OpRegister, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		Message: MsgRegistered,
		Token:   result.Token,
		User:    result.Account,
	})
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var params auth.LoginParams
	if err := decodeBody(r, w, &params); err != nil {
		h.logger.DebugContext(r.Context(), "login body rejected", "error", err)
		verr := auth.ValidationError("", auth.MsgMissingLogin)
		h.record(auth.OpLogin, verr)
		writeError(w, verr)
		return
	}

	result, err := h.service.Login(r.Context(), params)
	h.record(auth.OpLogin, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		Message: MsgLoggedIn,
		Token:   result.Token,
		User:    result.Account,
	})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, auth.MsgMissingAuthentication)
		return
	}

	view, err := h.service.WhoAmI(r.Context(), accountID)
	h.record(auth.OpWhoAmI, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: view})
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		writeErrorMessage(w, http.StatusUnauthorized, auth.MsgMissingAuthentication)
		return
	}

	err := h.service.Logout(r.Context(), accountID)
	h.record(auth.OpLogout, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgLoggedOut})
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgHealthy})
}
