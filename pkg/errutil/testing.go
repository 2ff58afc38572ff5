// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireOops fails the test immediately unless err carries oops metadata.
func requireOops(t *testing.T, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	return oopsErr
}

// AssertErrorCode asserts that the deepest oops code on err is code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	assert.Equal(t, code, requireOops(t, err).Code(), "error: %v", err)
}

// AssertErrorContext asserts that err carries key in its oops context.
// Pass a nil value to only check presence.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	ctx := requireOops(t, err).Context()
	require.Contains(t, ctx, key)
	if value != nil {
		assert.Equal(t, value, ctx[key])
	}
}

// AssertPublicMessage asserts the client-facing message on err.
func AssertPublicMessage(t *testing.T, err error, msg string) {
	t.Helper()
	assert.Equal(t, msg, requireOops(t, err).Public())
}

// AssertNoLeak asserts that none of the given fragments of internal detail
// reach the client-facing message.
func AssertNoLeak(t *testing.T, err error, fragments ...string) {
	t.Helper()
	public := requireOops(t, err).Public()
	for _, f := range fragments {
		assert.NotContains(t, public, f)
	}
}
