// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Credential length limits.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmailSyntax reports whether email is a syntactically plausible address.
// It does not prove the mailbox exists.
func ValidateEmailSyntax(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateUsername reports whether username has at least MinUsernameLength
// characters after trimming surrounding whitespace.
func ValidateUsername(username string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(username)) >= MinUsernameLength
}

// ValidUsernameCharacters reports whether username is valid UTF-8 free of
// control characters, which the account store cannot hold.
func ValidUsernameCharacters(username string) bool {
	return storableText(username)
}

func storableText(s string) bool {
	return utf8.ValidString(s) && strings.IndexFunc(s, unicode.IsControl) < 0
}

// ValidatePassword reports whether password has at least MinPasswordLength
// characters. Passwords are never trimmed.
func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// NormalizeEmail trims and lower-cases email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername trims username. Case is preserved.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}
