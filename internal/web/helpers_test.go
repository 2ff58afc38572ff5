// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/glowgirl/glowgirl/internal/auth"
	authmocks "github.com/glowgirl/glowgirl/internal/auth/mocks"
	"github.com/glowgirl/glowgirl/internal/observability"
	"github.com/glowgirl/glowgirl/internal/web"
	"github.com/glowgirl/glowgirl/internal/web/mocks"
)

type routerFixture struct {
	service *mocks.MockAuthService
	tokens  *authmocks.MockTokenVerifier
	metrics *observability.Metrics
	logs    *bytes.Buffer
	handler http.Handler
}

func newRouterFixture(t *testing.T, origins ...string) *routerFixture {
	t.Helper()
	f := &routerFixture{
		service: mocks.NewMockAuthService(t),
		tokens:  authmocks.NewMockTokenVerifier(t),
		metrics: observability.NewMetrics(prometheus.NewRegistry()),
		logs:    &bytes.Buffer{},
	}
	handler, err := web.NewRouter(web.RouterDeps{
		Service:     f.service,
		Tokens:      f.tokens,
		Metrics:     f.metrics,
		Logger:      slog.New(slog.NewJSONHandler(f.logs, nil)),
		CORSOrigins: origins,
	})
	require.NoError(t, err)
	f.handler = handler
	return f
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func strPtr(s string) *string { return &s }

func sampleView() auth.PublicView {
	return auth.PublicView{
		ID:        ulid.Make(),
		Email:     "alice@example.com",
		Username:  "alice",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}
