// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 30 * 24 * time.Hour

// MinSecretLength is the shortest accepted HS256 signing secret in bytes.
const MinSecretLength = 32

// TokenIssuer mints bearer tokens for an account.
type TokenIssuer interface {
	Issue(accountID ulid.ULID) (string, error)
}

// TokenVerifier resolves a bearer token to the account it was issued for.
type TokenVerifier interface {
	Verify(token string) (ulid.ULID, error)
}

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// TokenService issues and verifies HS256 JWTs whose subject is an account ULID.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService creates a TokenService.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, oops.Code("TOKEN_SECRET_INVALID").
			With("length", len(cfg.Secret)).
			Errorf("token secret must be at least %d bytes", MinSecretLength)
	}
	if cfg.TTL < 0 {
		return nil, oops.Code("TOKEN_TTL_INVALID").With("ttl", cfg.TTL.String()).Errorf("token ttl must be positive")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(cfg.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &TokenService{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    cfg.Now,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Issue returns a signed token for accountID expiring after the configured TTL.
func (s *TokenService) Issue(accountID ulid.ULID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("account_id", accountID.String()).Wrap(err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and issuer, and returns the
// account ID from the subject claim.
func (s *TokenService) Verify(token string) (ulid.ULID, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return ulid.ULID{}, InvalidTokenError(err)
	}
	if !parsed.Valid {
		return ulid.ULID{}, InvalidTokenError(nil)
	}

	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, InvalidTokenError(err)
	}
	return id, nil
}
