// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Supported hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2SaltLen = 16
	argon2KeyLen  = 32
)

// bcrypt only reads the first 72 bytes of its input.
const bcryptMaxPasswordBytes = 72

var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash.
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", bcryptMaxPasswordBytes)
)

// PasswordHasher produces and checks salted, adaptive password hashes.
type PasswordHasher interface {
	// Hash returns an encoded hash that embeds its salt and cost.
	Hash(ctx context.Context, password string) (string, error)

	// Verify returns (true, nil) on match, (false, nil) on mismatch,
	// or an error when the encoded hash is malformed.
	Verify(ctx context.Context, password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. A zero cost selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, oops.Code("AUTH_INVALID_COST").
			With("cost", cost).
			Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// Hash produces a bcrypt hash of the password.
func (h *BcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", oops.Code("AUTH_EMPTY_PASSWORD").Wrap(ErrEmptyPassword)
	}
	if len(password) > bcryptMaxPasswordBytes {
		return "", oops.Code("AUTH_PASSWORD_TOO_LONG").With("max_bytes", bcryptMaxPasswordBytes).Wrap(ErrPasswordTooLong)
	}
	if err := ctx.Err(); err != nil {
		return "", oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").With("algorithm", AlgorithmBcrypt).Wrap(err)
	}
	return string(hash), nil
}

// Verify checks the password against a bcrypt hash.
func (h *BcryptHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("AUTH_INVALID_HASH").With("algorithm", AlgorithmBcrypt).Wrap(err)
	}
}

// Argon2idHasher implements PasswordHasher using argon2id with PHC encoding.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id hash of the password.
func (h *Argon2idHasher) Hash(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", oops.Code("AUTH_EMPTY_PASSWORD").Wrap(ErrEmptyPassword)
	}
	if err := ctx.Err(); err != nil {
		return "", oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks the password against a PHC-encoded argon2id hash.
func (h *Argon2idHasher) Verify(ctx context.Context, password, encoded string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, oops.Code("AUTH_HASH_CANCELLED").Wrap(err)
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != AlgorithmArgon2id {
		return false, oops.Code("AUTH_INVALID_HASH").With("algorithm", AlgorithmArgon2id).Errorf("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if version != argon2.Version {
		return false, oops.Code("AUTH_INVALID_HASH").With("version", version).Errorf("unsupported argon2 version")
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("threads value %d out of range", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(expected) == 0 || len(expected) > 1<<10 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash key length: %d", len(expected))
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// MultiHasher hashes with one algorithm and verifies any supported one,
// so switching algorithms does not invalidate stored hashes.
type MultiHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2idHasher
}

// NewMultiHasher creates a MultiHasher whose new hashes use algorithm.
func NewMultiHasher(algorithm string, bcryptCost int) (*MultiHasher, error) {
	bh, err := NewBcryptHasher(bcryptCost)
	if err != nil {
		return nil, err
	}
	h := &MultiHasher{bcrypt: bh, argon2: NewArgon2idHasher()}
	switch algorithm {
	case "", AlgorithmBcrypt:
		h.primary = h.bcrypt
	case AlgorithmArgon2id:
		h.primary = h.argon2
	default:
		return nil, oops.Code("AUTH_UNKNOWN_HASHER").With("algorithm", algorithm).Errorf("unknown password hasher")
	}
	return h, nil
}

// Hash hashes with the primary algorithm.
func (h *MultiHasher) Hash(ctx context.Context, password string) (string, error) {
	return h.primary.Hash(ctx, password)
}

// Verify selects the algorithm from the hash prefix.
func (h *MultiHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return h.argon2.Verify(ctx, password, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return h.bcrypt.Verify(ctx, password, hash)
	default:
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("unrecognized hash format")
	}
}

// BoundedHasher limits how many hash operations run at once.
// Callers waiting for a slot give up when their context ends.
type BoundedHasher struct {
	next PasswordHasher
	sem  *semaphore.Weighted
}

// NewBoundedHasher wraps next with a limit of parallelism concurrent operations.
func NewBoundedHasher(next PasswordHasher, parallelism int) *BoundedHasher {
	if parallelism < 1 {
		parallelism = 1
	}
	return &BoundedHasher{next: next, sem: semaphore.NewWeighted(int64(parallelism))}
}

// Hash waits for a slot and delegates.
func (h *BoundedHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", oops.Code("AUTH_HASH_CANCELLED").With("operation", "hash").Wrap(err)
	}
	defer h.sem.Release(1)
	return h.next.Hash(ctx, password)
}

// Verify waits for a slot and delegates.
func (h *BoundedHasher) Verify(ctx context.Context, password, hash string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, oops.Code("AUTH_HASH_CANCELLED").With("operation", "verify").Wrap(err)
	}
	defer h.sem.Release(1)
	return h.next.Verify(ctx, password, hash)
}

// NewHasher builds the configured hasher: a MultiHasher behind a BoundedHasher.
func NewHasher(algorithm string, bcryptCost, parallelism int) (PasswordHasher, error) {
	multi, err := NewMultiHasher(algorithm, bcryptCost)
	if err != nil {
		return nil, err
	}
	return NewBoundedHasher(multi, parallelism), nil
}
