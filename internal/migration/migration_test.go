package migration

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMigrationsEmbedded(t *testing.T) {
	r := NewRunner(nil)

	migrations, err := r.ReadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "UNIQUE (habit_id, completion_date)")
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "device_tokens", migrations[1].Name)
	assert.Equal(t, 3, migrations[2].Version)
	assert.Contains(t, migrations[2].SQL, "reminders")
}

func TestReadMigrationsOrderingAndErrors(t *testing.T) {
	r := NewRunnerFS(nil, fstest.MapFS{
		"010_late.sql":  {Data: []byte("SELECT 10")},
		"002_early.sql": {Data: []byte("SELECT 2")},
		"README.md":     {Data: []byte("ignored")},
	})
	migrations, err := r.ReadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, 10, migrations[1].Version)

	_, err = NewRunnerFS(nil, fstest.MapFS{"init.sql": {Data: []byte("x")}}).ReadMigrations()
	assert.Error(t, err)

	_, err = NewRunnerFS(nil, fstest.MapFS{
		"001_a.sql":  {Data: []byte("x")},
		"0001_b.sql": {Data: []byte("y")},
	}).ReadMigrations()
	assert.ErrorContains(t, err, "duplicate migration version 1")
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: 1}, {Version: 2}, {Version: 3}}

	p, err := Pending(all, 1)
	require.NoError(t, err)
	assert.Equal(t, []Migration{{Version: 2}, {Version: 3}}, p)

	p, err = Pending(all, 3)
	require.NoError(t, err)
	assert.Empty(t, p)

	_, err = Pending(all, 4)
	assert.ErrorContains(t, err, "newer than supported")
}

func TestApplyAgainstPostgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()

	r := NewRunner(pool)
	_, err = r.Apply(ctx)
	require.NoError(t, err)

	// A second run is a no-op.
	applied, err := r.Apply(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied)

	version, err := r.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}
