// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/glowgirl/glowgirl/internal/config"
	"github.com/glowgirl/glowgirl/internal/store"
)

// SchemaMigrator is the part of store.Migrator the migrate command drives.
type SchemaMigrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
	Pending() ([]store.Migration, error)
	Applied() ([]store.Migration, error)
	Close() error
}

// migratorFactory opens the migrator. Tests replace it.
var migratorFactory = func(databaseURL string) (SchemaMigrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate command and its subcommands.
// Bare "migrate" behaves like "migrate up".
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, revert or inspect the embedded PostgreSQL schema migrations.`,
		RunE:  runMigrateUp,
	}
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection URL (default: DATABASE_URL)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  runMigrateUp,
	})

	down := &cobra.Command{
		Use:   "down",
		Short: "Revert all migrations (drops all account data)",
		RunE:  runMigrateDown,
	}
	down.Flags().Bool("yes", false, "confirm dropping all data")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE:  runMigrateStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE:  runMigrateVersion,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied without running it",
		Long: `Mark VERSION as applied without running any SQL. Use it to clear
the dirty flag after repairing a failed migration by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: runMigrateForce,
	})

	return cmd
}

// openMigrator resolves the database URL from flags, environment and config.
func openMigrator(cmd *cobra.Command) (SchemaMigrator, error) {
	path, err := resolveConfigFile()
	if err != nil {
		return nil, oops.With("operation", "locate configuration").Wrap(err)
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, oops.With("operation", "load configuration").Wrap(err)
	}
	if cfg.Database.URL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("database.url is required (or set DATABASE_URL)")
	}
	migrator, err := migratorFactory(cfg.Database.URL)
	if err != nil {
		return nil, oops.Code("MIGRATION_INIT_FAILED").With("operation", "open migrator").Wrap(err)
	}
	return migrator, nil
}

func closeMigrator(cmd *cobra.Command, migrator SchemaMigrator) {
	if err := migrator.Close(); err != nil {
		cmd.PrintErrln("warning: failed to close migrator:", err)
	}
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	pending, err := migrator.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("Database is up to date")
		return nil
	}

	cmd.Printf("Applying %d migration(s)...\n", len(pending))
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}
	for _, m := range pending {
		cmd.Printf("  applied %06d_%s\n", m.Version, migrationLabel(m))
	}
	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	confirmed, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return oops.Wrap(err)
	}
	if !confirmed {
		return oops.Code("CONFIRMATION_REQUIRED").Errorf("migrate down drops every account; rerun with --yes")
	}

	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	if err := migrator.Down(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "revert migrations").Wrap(err)
	}
	cmd.Println("All migrations reverted")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	applied, err := migrator.Applied()
	if err != nil {
		return err
	}
	pending, err := migrator.Pending()
	if err != nil {
		return err
	}

	cmd.Print(formatMigrationStatus(version, dirty, applied, pending))
	return nil
}

func runMigrateVersion(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("%d (dirty)\n", version)
		return nil
	}
	cmd.Printf("%d\n", version)
	return nil
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := parseForceVersion(args[0])
	if err != nil {
		return err
	}

	migrator, err := openMigrator(cmd)
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	if err := migrator.Force(version); err != nil {
		return err
	}
	cmd.Printf("Forced schema version to %d\n", version)
	return nil
}

// parseForceVersion parses a non-negative schema version.
func parseForceVersion(s string) (int, error) {
	s = strings.TrimSpace(s)
	var version int
	if _, err := fmt.Sscanf(s, "%d", &version); err != nil || fmt.Sprint(version) != s {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("version must be an integer, got %q", s)
	}
	if version < 0 {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("version must be non-negative, got %d", version)
	}
	return version, nil
}

// migrationLabel strips the numeric prefix from a migration name.
func migrationLabel(m store.Migration) string {
	if _, label, ok := strings.Cut(m.Name, "_"); ok {
		return label
	}
	return m.Name
}

func formatMigrationStatus(version uint, dirty bool, applied, pending []store.Migration) string {
	var b strings.Builder
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(&b, "Schema version: %d (%s)\n", version, state)
	for _, m := range applied {
		fmt.Fprintf(&b, "  [x] %06d %s\n", m.Version, migrationLabel(m))
	}
	for _, m := range pending {
		fmt.Fprintf(&b, "  [ ] %06d %s\n", m.Version, migrationLabel(m))
	}
	if len(pending) == 0 {
		b.WriteString("No pending migrations\n")
	} else {
		fmt.Fprintf(&b, "%d pending migration(s)\n", len(pending))
	}
	return b.String()
}
