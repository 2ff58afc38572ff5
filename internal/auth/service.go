// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/glowgirl/glowgirl/pkg/errutil"
)

// Operation names used in logs and error context.
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpWhoAmI   = "whoami"
	OpLogout   = "logout"
)

// dummyPassword is hashed once so logins for unknown emails still pay for a
// full verification.
const dummyPassword = "glowgirl-timing-equalizer" //nolint:gosec // not a credential

// RegisterParams is the raw registration input. A nil field was absent.
type RegisterParams struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// LoginParams is the raw login input. A nil field was absent.
type LoginParams struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Result is returned by a successful Register or Login.
type Result struct {
	Token   string
	Account PublicView
}

// Service provides account registration and authentication.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   *slog.Logger
	now      func() time.Time

	dummyMu   sync.Mutex
	dummyHash string
}

// NewService creates a new Service using the default logger.
func NewService(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer) (*Service, error) {
	return NewServiceWithLogger(accounts, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a new Service that logs internal failures to logger.
func NewServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Register creates an account and issues its first token.
func (s *Service) Register(ctx context.Context, params RegisterParams) (result *Result, err error) {
	defer s.recoverInternal(ctx, OpRegister, MsgRegistrationFailed, &err)

	if params.Email == nil || params.Username == nil || params.Password == nil {
		return nil, ValidationError("", MsgMissingFields)
	}

	email := NormalizeEmail(*params.Email)
	username := NormalizeUsername(*params.Username)
	password := *params.Password

	if !ValidateEmailSyntax(email) {
		return nil, ValidationError(FieldEmail, MsgInvalidEmail)
	}
	if !ValidateUsername(username) {
		return nil, ValidationError(FieldUsername, MsgUsernameTooShort)
	}
	if !ValidUsernameCharacters(username) {
		return nil, ValidationError(FieldUsername, MsgUsernameInvalid)
	}
	if !ValidatePassword(password) {
		return nil, ValidationError(FieldPassword, MsgPasswordTooShort)
	}

	// The pre-checks give precise messages; Create is still the arbiter.
	if _, lookupErr := s.accounts.FindByEmail(ctx, email); lookupErr == nil {
		return nil, ConflictError(FieldEmail)
	} else if !errors.Is(lookupErr, ErrNotFound) {
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "find account by email", lookupErr)
	}
	if _, lookupErr := s.accounts.FindByUsername(ctx, username); lookupErr == nil {
		return nil, ConflictError(FieldUsername)
	} else if !errors.Is(lookupErr, ErrNotFound) {
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "find account by username", lookupErr)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, ValidationError(FieldPassword, fmt.Sprintf("Password must be at most %d bytes", bcryptMaxPasswordBytes))
	}
	if err != nil {
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "hash password", err)
	}
	if hash == "" || hash == password {
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "hash password",
			oops.Code("AUTH_HASH_FAILED").Errorf("hasher returned unusable hash"))
	}

	account, err := NewAccount(email, username, hash, s.now())
	if err != nil {
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "build account", err)
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if KindOf(err) == KindConflict {
			return nil, err
		}
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "create account", err)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, s.internal(ctx, OpRegister, MsgRegistrationFailed, "issue token", err)
	}

	s.logger.InfoContext(ctx, "account registered", "account_id", account.ID.String())
	return &Result{Token: token, Account: account.PublicView()}, nil
}

// Login verifies credentials and issues a new token.
// Unknown emails and wrong passwords fail identically and take comparable time.
func (s *Service) Login(ctx context.Context, params LoginParams) (result *Result, err error) {
	defer s.recoverInternal(ctx, OpLogin, MsgLoginFailed, &err)

	if params.Email == nil || params.Password == nil {
		return nil, ValidationError("", MsgMissingLogin)
	}
	// Present but empty fields fall through to the credential check.
	email := NormalizeEmail(*params.Email)
	password := *params.Password

	account, lookupErr := s.findLoginAccount(ctx, email)
	if lookupErr != nil && !errors.Is(lookupErr, ErrNotFound) {
		return nil, s.internal(ctx, OpLogin, MsgLoginFailed, "find account by email", lookupErr)
	}
	accountExists := lookupErr == nil

	var targetHash string
	if accountExists {
		targetHash = account.PasswordHash
	} else {
		targetHash = s.timingHash(ctx)
	}

	valid, verifyErr := s.hasher.Verify(ctx, password, targetHash)
	if verifyErr != nil {
		if !accountExists {
			return nil, InvalidCredentialsError()
		}
		return nil, s.internal(ctx, OpLogin, MsgLoginFailed, "verify password", verifyErr)
	}
	if !accountExists || !valid {
		return nil, InvalidCredentialsError()
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, s.internal(ctx, OpLogin, MsgLoginFailed, "issue token", err)
	}

	s.logger.InfoContext(ctx, "account logged in", "account_id", account.ID.String())
	return &Result{Token: token, Account: account.PublicView()}, nil
}

// WhoAmI returns the public view of the account a verified token names.
func (s *Service) WhoAmI(ctx context.Context, accountID ulid.ULID) (view PublicView, err error) {
	defer s.recoverInternal(ctx, OpWhoAmI, MsgWhoAmIFailed, &err)

	account, err := s.accounts.FindByID(ctx, accountID)
	if errors.Is(err, ErrNotFound) {
		return PublicView{}, NotFoundError(accountID.String())
	}
	if err != nil {
		return PublicView{}, s.internal(ctx, OpWhoAmI, MsgWhoAmIFailed, "find account by id", err)
	}
	return account.PublicView(), nil
}

// Logout acknowledges that the client discards its token.
// Tokens are stateless, so nothing is revoked.
func (s *Service) Logout(ctx context.Context, accountID ulid.ULID) error {
	s.logger.InfoContext(ctx, "account logged out", "account_id", accountID.String())
	return nil
}

// findLoginAccount treats an email the store could never hold as unknown.
func (s *Service) findLoginAccount(ctx context.Context, email string) (*Account, error) {
	if !storableText(email) {
		return nil, ErrNotFound
	}
	return s.accounts.FindByEmail(ctx, email)
}

// timingHash returns a hash in the primary format for unknown-account logins.
// A failed preparation is retried by the next caller.
func (s *Service) timingHash(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}
	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), dummyPassword)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, "failed to prepare timing hash", err)
		return ""
	}
	s.dummyHash = hash
	return hash
}

// internal logs cause and returns the operation's generic internal error.
func (s *Service) internal(ctx context.Context, op, publicMsg, step string, cause error) error {
	err := InternalError(op, publicMsg, oops.With("step", step).Wrap(cause))
	errutil.LogErrorContext(ctx, s.logger, op+" failed", err)
	return err
}

// recoverInternal converts a panic in an operation into an internal error.
func (s *Service) recoverInternal(ctx context.Context, op, publicMsg string, errp *error) {
	if r := recover(); r != nil {
		*errp = s.internal(ctx, op, publicMsg, "panic", oops.Code("AUTH_PANIC").Errorf("panic: %v", r))
	}
}
