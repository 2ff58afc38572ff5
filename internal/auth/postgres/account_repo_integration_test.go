// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"golang.org/x/crypto/bcrypt"

	"github.com/glowgirl/glowgirl/internal/auth"
	"github.com/glowgirl/glowgirl/internal/auth/postgres"
)

func newAccount(email, username string) *auth.Account {
	account, err := auth.NewAccount(email, username, "$2a$04$placeholderhashplaceholderhashplaceholderha", time.Now())
	Expect(err).NotTo(HaveOccurred())
	return account
}

var _ = Describe("AccountRepository", func() {
	var repo *postgres.AccountRepository

	BeforeEach(func() {
		repo = postgres.NewAccountRepository(testPool)
		_, err := testPool.Exec(context.Background(), `DELETE FROM accounts`)
		Expect(err).NotTo(HaveOccurred())
	})

	It("round-trips an account through every lookup", func() {
		ctx := context.Background()
		account := newAccount("alice@example.com", "alice")
		Expect(repo.Create(ctx, account)).To(Succeed())

		byID, err := repo.FindByID(ctx, account.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.Email).To(Equal(account.Email))
		Expect(byID.CreatedAt.Equal(account.CreatedAt)).To(BeTrue(),
			"stored %s, read back %s", account.CreatedAt, byID.CreatedAt)

		byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ID).To(Equal(account.ID))

		byUsername, err := repo.FindByUsername(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(byUsername.ID).To(Equal(account.ID))
	})

	It("reads back created_at exactly when the clock has nanoseconds", func() {
		ctx := context.Background()
		precise := time.Date(2026, 3, 1, 6, 0, 0, 123456789, time.UTC)
		account, err := auth.NewAccount("nano@example.com", "nano", "$2a$04$placeholderhashplaceholderhashplaceholderha", precise)
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.Create(ctx, account)).To(Succeed())

		byID, err := repo.FindByID(ctx, account.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(byID.CreatedAt.Equal(account.CreatedAt)).To(BeTrue(),
			"stored %s, read back %s", account.CreatedAt, byID.CreatedAt)
		Expect(byID.CreatedAt.Nanosecond()).To(Equal(123456000))
	})

	It("reports missing accounts as not found", func() {
		_, err := repo.FindByID(context.Background(), ulid.Make())
		Expect(err).To(MatchError(auth.ErrNotFound))
	})

	It("matches usernames exactly", func() {
		ctx := context.Background()
		Expect(repo.Create(ctx, newAccount("alice@example.com", "Alice"))).To(Succeed())

		_, err := repo.FindByUsername(ctx, "alice")
		Expect(err).To(MatchError(auth.ErrNotFound))
	})

	It("maps unique violations to field conflicts", func() {
		ctx := context.Background()
		Expect(repo.Create(ctx, newAccount("alice@example.com", "alice"))).To(Succeed())

		err := repo.Create(ctx, newAccount("alice@example.com", "other"))
		Expect(auth.KindOf(err)).To(Equal(auth.KindConflict))
		Expect(auth.PublicMessage(err)).To(Equal(auth.MsgEmailTaken))

		err = repo.Create(ctx, newAccount("other@example.com", "alice"))
		Expect(auth.KindOf(err)).To(Equal(auth.KindConflict))
		Expect(auth.PublicMessage(err)).To(Equal(auth.MsgUsernameTaken))
	})

	It("lets exactly one concurrent registration win", func() {
		ctx := context.Background()
		hasher, err := auth.NewHasher(auth.AlgorithmBcrypt, bcrypt.MinCost, 8)
		Expect(err).NotTo(HaveOccurred())
		tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: []byte("0123456789abcdef0123456789abcdef")})
		Expect(err).NotTo(HaveOccurred())
		svc, err := auth.NewService(repo, hasher, tokens)
		Expect(err).NotTo(HaveOccurred())

		const attempts = 10
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				email, username, password := "race@example.com", fmt.Sprintf("racer%d", i), "secret1"
				_, err := svc.Register(ctx, auth.RegisterParams{Email: &email, Username: &username, Password: &password})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
					return
				}
				Expect(auth.KindOf(err)).To(Equal(auth.KindConflict))
				conflicts++
			}()
		}
		wg.Wait()

		Expect(successes).To(Equal(1))
		Expect(conflicts).To(Equal(attempts - 1))

		var count int
		Expect(testPool.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE email = 'race@example.com'`).Scan(&count)).To(Succeed())
		Expect(count).To(Equal(1))
	})
})
