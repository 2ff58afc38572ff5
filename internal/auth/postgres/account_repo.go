// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

// Package postgres implements auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/glowgirl/glowgirl/internal/auth"
)

// Unique constraint names from the accounts migration.
const (
	emailConstraint    = "accounts_email_key"
	usernameConstraint = "accounts_username_key"
)

// poolIface is the subset of *pgxpool.Pool the repository uses.
type poolIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool poolIface
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool poolIface) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const selectAccount = `
	SELECT id, email, username, password_hash, created_at
	FROM accounts
`

// Create inserts an account. Duplicate emails or usernames are rejected by
// the unique indexes and reported as auth conflict errors.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		account.ID.String(),
		account.Email,
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case emailConstraint:
			return auth.ConflictError(auth.FieldEmail)
		case usernameConstraint:
			return auth.ConflictError(auth.FieldUsername)
		default:
			return auth.ConflictError(pgErr.ConstraintName)
		}
	}
	return oops.Code("ACCOUNT_CREATE_FAILED").
		With("operation", "insert account").
		With("username", account.Username).
		Wrap(err)
}

// FindByID retrieves an account by ID.
func (r *AccountRepository) FindByID(ctx context.Context, id ulid.ULID) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, selectAccount+`WHERE id = $1`, id.String())
	return r.find(row, "id", id.String())
}

// FindByEmail retrieves an account by normalized email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, selectAccount+`WHERE email = $1`, email)
	return r.find(row, "email", email)
}

// FindByUsername retrieves an account by exact username.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, selectAccount+`WHERE username = $1`, username)
	return r.find(row, "username", username)
}

func (r *AccountRepository) find(row pgx.Row, key, value string) (*auth.Account, error) {
	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With(key, value).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_LOOKUP_FAILED").
			With("operation", "get account by "+key).
			With(key, value).
			Wrap(err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		account   auth.Account
		idStr     string
		createdAt time.Time
	)
	if err := row.Scan(&idStr, &account.Email, &account.Username, &account.PasswordHash, &createdAt); err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with lookup context
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_CORRUPT_ID").With("id", idStr).Wrap(err)
	}
	account.ID = id
	account.CreatedAt = createdAt.UTC()
	return &account, nil
}
