// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// Error codes carried by errors returned from Service.
const (
	CodeValidation         = "AUTH_VALIDATION_FAILED"
	CodeConflict           = "AUTH_CONFLICT"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeInvalidToken       = "AUTH_INVALID_TOKEN"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeInternal           = "AUTH_INTERNAL"
)

// Public messages shown to clients.
const (
	MsgMissingFields         = "Missing required fields"
	MsgMissingLogin          = "Missing email or password"
	MsgInvalidEmail          = "Invalid email format"
	MsgUsernameTooShort      = "Username must be at least 3 characters"
	MsgUsernameInvalid       = "Username contains invalid characters"
	MsgPasswordTooShort      = "Password must be at least 6 characters"
	MsgEmailTaken            = "Email already registered"
	MsgUsernameTaken         = "Username already taken"
	MsgAccountExists         = "Account already exists"
	MsgInvalidCredentials    = "Invalid email or password"
	MsgInvalidToken          = "Invalid or expired token"
	MsgUserNotFound          = "User not found"
	MsgRegistrationFailed    = "Registration failed"
	MsgLoginFailed           = "Login failed"
	MsgWhoAmIFailed          = "Failed to get user info"
	MsgInternal              = "Internal server error"
	MsgMissingAuthentication = "Missing or invalid authorization header"
)

// Field names reported with validation and conflict errors.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldPassword = "password"
)

// Kind classifies an error for transports.
type Kind int

// Error kinds. KindInternal is the zero value so unknown errors are internal.
const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindInvalidToken
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindInvalidToken:
		return "invalid_token"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf reports the kind of err. Errors without a known code are internal.
func KindOf(err error) Kind {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return KindInternal
	}
	switch oopsErr.Code() {
	case CodeValidation:
		return KindValidation
	case CodeConflict:
		return KindConflict
	case CodeInvalidCredentials:
		return KindAuthentication
	case CodeInvalidToken:
		return KindInvalidToken
	case CodeAccountNotFound:
		return KindNotFound
	default:
		return KindInternal
	}
}

// PublicMessage returns the client-safe message for err.
// Internal errors never leak their cause.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return MsgInternal
	}
	if msg := oopsErr.Public(); msg != "" {
		return msg
	}
	if KindOf(err) == KindInvalidToken {
		return MsgInvalidToken
	}
	return MsgInternal
}

// ValidationError reports malformed or missing input.
func ValidationError(field, msg string) error {
	return oops.Code(CodeValidation).
		With("field", field).
		Public(msg).
		Errorf("%s", msg)
}

// ConflictError reports that field collides with an existing account.
func ConflictError(field string) error {
	msg := MsgAccountExists
	switch field {
	case FieldEmail:
		msg = MsgEmailTaken
	case FieldUsername:
		msg = MsgUsernameTaken
	}
	return oops.Code(CodeConflict).
		With("field", field).
		Public(msg).
		Errorf("%s", msg)
}

// InvalidCredentialsError is returned for both unknown emails and wrong
// passwords so callers cannot tell which one failed.
func InvalidCredentialsError() error {
	return oops.Code(CodeInvalidCredentials).
		Public(MsgInvalidCredentials).
		Errorf("%s", MsgInvalidCredentials)
}

// InvalidTokenError reports a token that failed verification.
func InvalidTokenError(cause error) error {
	b := oops.Code(CodeInvalidToken).Public(MsgInvalidToken)
	if cause == nil {
		return b.Errorf("%s", MsgInvalidToken)
	}
	return b.Wrapf(cause, "invalid token")
}

// NotFoundError reports a verified identity with no matching account.
func NotFoundError(id string) error {
	return oops.Code(CodeAccountNotFound).
		With("account_id", id).
		Public(MsgUserNotFound).
		Wrap(ErrNotFound)
}

// InternalError hides cause behind an operation-specific generic message.
func InternalError(operation, publicMsg string, cause error) error {
	b := oops.Code(CodeInternal).
		With("operation", operation).
		Public(publicMsg)
	if cause == nil {
		return b.Errorf("%s", publicMsg)
	}
	return b.Wrapf(cause, "%s", publicMsg)
}
