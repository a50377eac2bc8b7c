package iocache

import (
	"path/filepath"
	"testing"

	"github.com/osshealth/metalens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(documentTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("get on empty store errors", func(t *testing.T) {
		_, _, _, err := store.Get("https://owasp.org/matrix.json")
		assert.Error(t, err)
	})

	t.Run("set then get round-trips", func(t *testing.T) {
		err := store.Set("https://owasp.org/matrix.json", []byte(`[{"repo":"x"}]`), 1, 1700000000)
		require.NoError(t, err)

		value, version, ts, err := store.Get("https://owasp.org/matrix.json")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[{"repo":"x"}]`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1700000000), ts)
	})

	t.Run("set replaces existing entry", func(t *testing.T) {
		require.NoError(t, store.Set("key", []byte("old"), 1, 100))
		require.NoError(t, store.Set("key", []byte("new"), 2, 200))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(200), ts)
	})

	t.Run("status reports entries", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, string(schema.SQLiteBackend), status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, int64(2), status.TotalEntries)
		assert.False(t, status.LastEntryTime.IsZero())
	})
}

func TestCacheStoreNoneBackend(t *testing.T) {
	store, err := NewCacheStore(documentTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("key", []byte("value"), 1, 1))

	_, _, _, err = store.Get("key")
	assert.Error(t, err, "none backend never stores anything")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Close())
}

func TestCacheStoreUnsupportedBackend(t *testing.T) {
	_, err := NewCacheStore(documentTable, "oracle", "")
	assert.Error(t, err)
}

// TestTableNameValidation tests the guard on interpolated table names.
func TestTableNameValidation(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "document_cache", false},
		{"valid with digits", "cache_v2", false},
		{"leading underscore", "_cache", false},
		{"leading digit", "2cache", true},
		{"sql injection", "cache; DROP TABLE users", true},
		{"empty", "", true},
		{"hyphen", "doc-cache", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCacheStore(tt.tableName, schema.NoneBackend, "")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
