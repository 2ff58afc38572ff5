// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "Failed to parse JSON: %s", buf.String())
	return entry
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "json", slog.LevelInfo, &buf)

	logger.Info("test message")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "glowgirl", entry["service"])
	assert.Equal(t, "1.0.0", entry["version"])
	assert.Contains(t, entry, "time", "time field missing")
	assert.Contains(t, entry, "level", "level field missing")
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "text", slog.LevelInfo, &buf)

	logger.Info("test message")

	output := buf.String()
	assert.Contains(t, output, "test message", "Output missing message")
	assert.Contains(t, output, "service=glowgirl", "Output missing service")
}

func TestSetup_LevelFiltersRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "json", slog.LevelWarn, &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetup_RedactsSensitiveAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "json", slog.LevelInfo, &buf)

	logger.Info("login attempt",
		"password", "hunter22",
		"Token", "eyJhbGciOi",
		"email", "alice@example.com",
	)

	entry := decodeEntry(t, &buf)
	assert.Equal(t, RedactedValue, entry["password"])
	assert.Equal(t, RedactedValue, entry["Token"])
	assert.Equal(t, "alice@example.com", entry["email"])
	assert.NotContains(t, buf.String(), "hunter22")
}

func TestHandler_RedactsInsideGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "json", slog.LevelInfo, &buf)

	logger.WithGroup("request").Info("received", "authorization", "Bearer abc")

	assert.NotContains(t, buf.String(), "Bearer abc")
	assert.Contains(t, buf.String(), RedactedValue)
}

func TestHandler_TraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "json", slog.LevelInfo, &buf)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced message")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entry["span_id"])
}

func TestHandler_NoTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "1.0.0", "json", slog.LevelInfo, &buf)

	logger.Info("no trace message")

	entry := decodeEntry(t, &buf)
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "span_id")
}

func TestHandler_WithAttrsKeepsIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("glowgirl", "2.0.0", "json", slog.LevelInfo, &buf).With("request_id", "abc")

	logger.Info("with attrs")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "abc", entry["request_id"])
	assert.Equal(t, "glowgirl", entry["service"])
	assert.Equal(t, "2.0.0", entry["version"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
