// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GlowGirl Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowgirl/glowgirl/pkg/errutil"
)

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	stepsErr       error
	steps          []int
	versionVal     uint
	versionErr     error
	dirty          bool
	forceErr       error
	forced         []int
	closeSourceErr error
	closeDBErr     error
}

func (m *mockMigrate) Up() error   { return m.upErr }
func (m *mockMigrate) Down() error { return m.downErr }
func (m *mockMigrate) Steps(n int) error {
	m.steps = append(m.steps, n)
	return m.stepsErr
}
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Force(v int) error {
	m.forced = append(m.forced, v)
	return m.forceErr
}
func (m *mockMigrate) Close() (error, error) { return m.closeSourceErr, m.closeDBErr }

func TestMigrationURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/glowgirl":   "pgx5://u:p@db:5432/glowgirl",
		"postgresql://u:p@db:5432/glowgirl": "pgx5://u:p@db:5432/glowgirl",
		"pgx5://u:p@db:5432/glowgirl":       "pgx5://u:p@db:5432/glowgirl",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, MigrationURL(in))
		})
	}
}

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("badscheme://localhost:5432/testdb")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
	assert.NotContains(t, err.Error(), "unknown driver postgres")
}

func TestMigrator_Direction(t *testing.T) {
	tests := []struct {
		name     string
		mock     *mockMigrate
		run      func(m *Migrator) error
		wantCode string
	}{
		{"up", &mockMigrate{}, (*Migrator).Up, ""},
		{"up no change", &mockMigrate{upErr: migrate.ErrNoChange}, (*Migrator).Up, ""},
		{"up error", &mockMigrate{upErr: errors.New("database locked")}, (*Migrator).Up, "MIGRATION_UP_FAILED"},
		{"down", &mockMigrate{}, (*Migrator).Down, ""},
		{"down no change", &mockMigrate{downErr: migrate.ErrNoChange}, (*Migrator).Down, ""},
		{"down error", &mockMigrate{downErr: errors.New("locked")}, (*Migrator).Down, "MIGRATION_DOWN_FAILED"},
		{"steps", &mockMigrate{}, func(m *Migrator) error { return m.Steps(-1) }, ""},
		{"steps no change", &mockMigrate{stepsErr: migrate.ErrNoChange}, func(m *Migrator) error { return m.Steps(1) }, ""},
		{"steps error", &mockMigrate{stepsErr: errors.New("boom")}, func(m *Migrator) error { return m.Steps(1) }, "MIGRATION_STEPS_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(&Migrator{m: tt.mock})
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestMigrator_Version(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 2}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), v)
		assert.False(t, dirty)
	})

	t.Run("dirty", func(t *testing.T) {
		_, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 1, dirty: true}}).Version()
		require.NoError(t, err)
		assert.True(t, dirty)
	})

	t.Run("fresh database", func(t *testing.T) {
		v, dirty, err := (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
		require.NoError(t, err)
		assert.Zero(t, v)
		assert.False(t, dirty)
	})

	t.Run("error", func(t *testing.T) {
		_, _, err := (&Migrator{m: &mockMigrate{versionErr: errors.New("conn")}}).Version()
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_Force(t *testing.T) {
	t.Run("forwards version", func(t *testing.T) {
		mm := &mockMigrate{}
		require.NoError(t, (&Migrator{m: mm}).Force(1))
		assert.Equal(t, []int{1}, mm.forced)
	})

	t.Run("negative rejected before reaching migrate", func(t *testing.T) {
		mm := &mockMigrate{}
		err := (&Migrator{m: mm}).Force(-1)
		errutil.AssertErrorCode(t, err, "INVALID_VERSION")
		assert.Empty(t, mm.forced)
	})

	t.Run("error", func(t *testing.T) {
		err := (&Migrator{m: &mockMigrate{forceErr: errors.New("boom")}}).Force(1)
		errutil.AssertErrorCode(t, err, "MIGRATION_FORCE_FAILED")
		errutil.AssertErrorContext(t, err, "version", 1)
	})
}

func TestMigrator_Close(t *testing.T) {
	tests := []struct {
		name      string
		mock      *mockMigrate
		component string
	}{
		{"clean", &mockMigrate{}, ""},
		{"source", &mockMigrate{closeSourceErr: errors.New("src")}, "source"},
		{"database", &mockMigrate{closeDBErr: errors.New("db")}, "database"},
		{"both", &mockMigrate{closeSourceErr: errors.New("src"), closeDBErr: errors.New("db")}, "both"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Migrator{m: tt.mock}).Close()
			if tt.component == "" {
				require.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
			errutil.AssertErrorContext(t, err, "component", tt.component)
		})
	}
}

func TestMigrator_PendingAndApplied(t *testing.T) {
	all, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, all)
	latest := all[len(all)-1].Version

	t.Run("fresh database", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}
		pending, err := m.Pending()
		require.NoError(t, err)
		assert.Equal(t, all, pending)

		applied, err := m.Applied()
		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	t.Run("first applied", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionVal: 1}}
		pending, err := m.Pending()
		require.NoError(t, err)
		assert.Equal(t, all[1:], pending)

		applied, err := m.Applied()
		require.NoError(t, err)
		assert.Equal(t, all[:1], applied)
	})

	t.Run("at latest", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionVal: latest}}
		pending, err := m.Pending()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("version error", func(t *testing.T) {
		m := &Migrator{m: &mockMigrate{versionErr: errors.New("conn")}}
		_, err := m.Pending()
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}
