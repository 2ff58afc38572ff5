// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Account is a registered user.
type Account struct {
	ID           ulid.ULID
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicView is the only account shape that leaves the service.
type PublicView struct {
	ID        ulid.ULID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount creates an Account from already-normalized fields.
// The password hash must come from a PasswordHasher. CreatedAt is truncated
// to the microsecond precision the store keeps.
func NewAccount(email, username, passwordHash string, now time.Time) (*Account, error) {
	if !ValidateEmailSyntax(email) {
		return nil, oops.Code("ACCOUNT_INVALID_EMAIL").With("email", email).Errorf("invalid email")
	}
	if !ValidateUsername(username) {
		return nil, oops.Code("ACCOUNT_INVALID_USERNAME").With("username", username).Errorf("invalid username")
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &Account{
		ID:           ulid.Make(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now.UTC().Truncate(time.Microsecond),
	}, nil
}

// PublicView returns the account without its password hash.
func (a *Account) PublicView() PublicView {
	return PublicView{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		CreatedAt: a.CreatedAt.UTC(),
	}
}

// AccountRepository persists accounts.
//
// Lookups return an error wrapping ErrNotFound when no account matches.
// Create must reject a duplicate email or username atomically and report it
// with ConflictError, so concurrent registrations produce exactly one winner.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUsername(ctx context.Context, username string) (*Account, error)
	FindByID(ctx context.Context, id ulid.ULID) (*Account, error)
	Create(ctx context.Context, account *Account) error
}
