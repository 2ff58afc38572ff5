// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

// Package authtest provides in-memory fakes for exercising auth.Service
// without a database.
package authtest

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/glowgirl/glowgirl/internal/auth"
)

// MemoryAccountRepository is an auth.AccountRepository backed by maps.
// Create checks and inserts under one lock, mirroring a unique index.
type MemoryAccountRepository struct {
	mu         sync.RWMutex
	byID       map[ulid.ULID]auth.Account
	byEmail    map[string]ulid.ULID
	byUsername map[string]ulid.ULID
}

// NewMemoryAccountRepository returns an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:       make(map[ulid.ULID]auth.Account),
		byEmail:    make(map[string]ulid.ULID),
		byUsername: make(map[string]ulid.ULID),
	}
}

// FindByEmail implements auth.AccountRepository.
func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("email", email).Wrap(auth.ErrNotFound)
	}
	return r.copyOf(id), nil
}

// FindByUsername implements auth.AccountRepository.
func (r *MemoryAccountRepository) FindByUsername(_ context.Context, username string) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUsername[username]
	if !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return r.copyOf(id), nil
}

// FindByID implements auth.AccountRepository.
func (r *MemoryAccountRepository) FindByID(_ context.Context, id ulid.ULID) (*auth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byID[id]; !ok {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").With("id", id.String()).Wrap(auth.ErrNotFound)
	}
	return r.copyOf(id), nil
}

// Create implements auth.AccountRepository.
func (r *MemoryAccountRepository) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[account.ID]; ok {
		return oops.Code("ACCOUNT_CREATE_FAILED").With("id", account.ID.String()).Errorf("duplicate account id")
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return auth.ConflictError(auth.FieldEmail)
	}
	if _, ok := r.byUsername[account.Username]; ok {
		return auth.ConflictError(auth.FieldUsername)
	}
	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	r.byUsername[account.Username] = account.ID
	return nil
}

// Len returns the number of stored accounts.
func (r *MemoryAccountRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryAccountRepository) copyOf(id ulid.ULID) *auth.Account {
	a := r.byID[id]
	return &a
}
