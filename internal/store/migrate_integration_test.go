// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/glowgirl/glowgirl/internal/store"
)

var _ = Describe("Migrator", func() {
	var migrator *store.Migrator

	BeforeEach(func() {
		var err error
		migrator, err = store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(migrator.Down()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())
	})

	It("applies and reverts every embedded migration", func() {
		all, err := store.Migrations()
		Expect(err).NotTo(HaveOccurred())
		latest := all[len(all)-1].Version

		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())

		Expect(migrator.Up()).To(Succeed())
		version, dirty, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(Equal(latest))
		Expect(dirty).To(BeFalse())

		Expect(migrator.Steps(-1)).To(Succeed())
		pending, err := migrator.Pending()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(HaveLen(1))

		Expect(migrator.Steps(1)).To(Succeed())
		pending, err = migrator.Pending()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(BeEmpty())
	})

	It("is idempotent when already current", func() {
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Up()).To(Succeed())
	})

	It("rejects unnormalized rows once the checks are applied", func() {
		Expect(migrator.Up()).To(Succeed())

		ctx := context.Background()
		pool, err := store.Open(ctx, store.PoolConfig{URL: connStr, ConnectTimeout: 10 * time.Second})
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		_, err = pool.Exec(ctx, `INSERT INTO accounts (id, email, username, password_hash)
			VALUES ('01ARZ3NDEKTSV4RRFFQ69G5FAV', 'Mixed@Case.com', 'alice', 'h')`)
		Expect(err).To(HaveOccurred())

		Expect(store.ReadinessCheck(pool, time.Second)()).To(BeTrue())
	})
})
