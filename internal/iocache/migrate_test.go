package iocache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/osshealth/metalens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSnapshots_NoneBackend(t *testing.T) {
	err := MigrateSnapshots(schema.NoneBackend, "", -1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations are not supported")
}

func TestMigrateSnapshots_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")

	// Migrate to the latest version
	err := MigrateSnapshots(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")

	// Migrating again is a no-op
	err = MigrateSnapshots(schema.SQLiteBackend, dbPath, -1)
	assert.NoError(t, err)

	// Roll back everything, then come back up
	err = MigrateSnapshots(schema.SQLiteBackend, dbPath, 0)
	assert.NoError(t, err)
	err = MigrateSnapshots(schema.SQLiteBackend, dbPath, 1)
	assert.NoError(t, err)
}

func TestMigrateSnapshots_SQLiteInMemory(t *testing.T) {
	err := MigrateSnapshots(schema.SQLiteBackend, ":memory:", -1)
	require.NoError(t, err)
}
