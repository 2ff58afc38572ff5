// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowgirl/glowgirl/internal/auth"
	"github.com/glowgirl/glowgirl/pkg/errutil"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestTokens(t *testing.T, cfg auth.TokenConfig) *auth.TokenService {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	svc, err := auth.NewTokenService(cfg)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("short")})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_SECRET_INVALID")
	})

	t.Run("rejects negative ttl", func(t *testing.T) {
		_, err := auth.NewTokenService(auth.TokenConfig{Secret: testSecret, TTL: -time.Second})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_TTL_INVALID")
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := newTestTokens(t, auth.TokenConfig{})
	id := ulid.Make()

	token, err := svc.Issue(id)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_Claims(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := newTestTokens(t, auth.TokenConfig{Issuer: "glowgirl", Now: func() time.Time { return now }})
	id := ulid.Make()

	token, err := svc.Issue(id)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, id.String(), claims.Subject)
	assert.Equal(t, "glowgirl", claims.Issuer)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(auth.DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_TokensDiffer(t *testing.T) {
	svc := newTestTokens(t, auth.TokenConfig{})
	id := ulid.Make()

	first, err := svc.Issue(id)
	require.NoError(t, err)
	second, err := svc.Issue(id)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTokenService_Rejects(t *testing.T) {
	id := ulid.Make()
	svc := newTestTokens(t, auth.TokenConfig{Issuer: "glowgirl"})

	issuedLongAgo := newTestTokens(t, auth.TokenConfig{
		Issuer: "glowgirl",
		Now:    func() time.Time { return time.Now().Add(-auth.DefaultTokenTTL - time.Minute) },
	})
	expired, err := issuedLongAgo.Issue(id)
	require.NoError(t, err)

	otherSecret := newTestTokens(t, auth.TokenConfig{
		Issuer: "glowgirl",
		Secret: []byte("ffffffffffffffffffffffffffffffff"),
	})
	forged, err := otherSecret.Issue(id)
	require.NoError(t, err)

	otherIssuer := newTestTokens(t, auth.TokenConfig{Issuer: "someone-else"})
	foreign, err := otherIssuer.Issue(id)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   id.String(),
		Issuer:    "glowgirl",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-ulid",
		Issuer:    "glowgirl",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: id.String(),
		Issuer:  "glowgirl",
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", forged},
		{"wrong issuer", foreign},
		{"alg none", none},
		{"subject not a ulid", badSubject},
		{"missing expiry", noExpiry},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			require.Error(t, err)
			assert.Equal(t, auth.KindInvalidToken, auth.KindOf(err))
			errutil.AssertErrorCode(t, err, auth.CodeInvalidToken)
		})
	}
}
