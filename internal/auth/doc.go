// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

// Package auth provides account registration and authentication for GlowGirl.
//
// # Domain Types
//
// Accounts should be created with NewAccount, which validates the normalized
// email, username and password hash before minting a ULID. Direct struct
// initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated accounts.
//
// # Services
//
// Service coordinates the four account operations:
//   - Register - validate, hash, persist, issue a token
//   - Login - verify credentials, issue a token
//   - WhoAmI - resolve a verified token subject to its public view
//   - Logout - acknowledge the client discarding its token
//
// Every error returned by Service carries one of the codes declared in
// errors.go. Transports classify them with KindOf and render them with
// PublicMessage.
package auth
