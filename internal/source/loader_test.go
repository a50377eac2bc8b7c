package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matrixDoc = `[
	{"repo": "www-project-zap", "archived": false, "license": "Apache-2.0"},
	{"repo": "www-project-retired", "archived": "✔"}
]`

// memCache is an in-memory CacheStore for loader tests.
type memCache struct {
	entries map[string]memEntry
	sets    int
}

type memEntry struct {
	data    []byte
	version int
	ts      int64
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]memEntry)}
}

func (c *memCache) Get(key string) ([]byte, int, int64, error) {
	e, ok := c.entries[key]
	if !ok {
		return nil, 0, 0, os.ErrNotExist
	}
	return e.data, e.version, e.ts, nil
}

func (c *memCache) Set(key string, value []byte, version int, timestamp int64) error {
	c.sets++
	c.entries[key] = memEntry{data: value, version: version, ts: timestamp}
	return nil
}

func (c *memCache) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{}, nil
}

func (c *memCache) Close() error { return nil }

func newTestLoader(source string, cache contract.CacheStore, ttl time.Duration) *Loader {
	return &Loader{
		source: source,
		ttl:    ttl,
		client: &http.Client{Timeout: 5 * time.Second},
		cache:  cache,
		clock:  time.Now,
	}
}

// TestLoaderFile tests loading the matrix from a local path.
func TestLoaderFile(t *testing.T) {
	ctx := context.Background()

	t.Run("reads and decodes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "matrix.json")
		require.NoError(t, os.WriteFile(path, []byte(matrixDoc), 0o644))

		rows, err := newTestLoader(path, nil, 0).Load(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "www-project-zap", rows[0]["repo"])
	})

	t.Run("missing file is a fetch error", func(t *testing.T) {
		_, err := newTestLoader(filepath.Join(t.TempDir(), "missing.json"), nil, 0).Load(ctx)
		var ferr *contract.FetchError
		require.ErrorAs(t, err, &ferr)
		assert.Zero(t, ferr.StatusCode)
	})
}

// TestLoaderURL tests the HTTP path and its failure modes.
func TestLoaderURL(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches and decodes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(matrixDoc))
		}))
		defer srv.Close()

		rows, err := newTestLoader(srv.URL, nil, 0).Load(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("non-2xx status is a fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestLoader(srv.URL, nil, 0).Load(ctx)
		var ferr *contract.FetchError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, http.StatusNotFound, ferr.StatusCode)
	})

	t.Run("unreachable host is a fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // shut down before use

		_, err := newTestLoader(srv.URL, nil, 0).Load(ctx)
		var ferr *contract.FetchError
		assert.ErrorAs(t, err, &ferr)
	})
}

// TestLoaderCache tests TTL-based response caching.
func TestLoaderCache(t *testing.T) {
	ctx := context.Background()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(matrixDoc))
	}))
	defer srv.Close()

	t.Run("second load within TTL hits the cache", func(t *testing.T) {
		hits = 0
		cache := newMemCache()
		loader := newTestLoader(srv.URL, cache, time.Hour)

		_, err := loader.Load(ctx)
		require.NoError(t, err)
		_, err = loader.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, hits)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("expired entry refetches", func(t *testing.T) {
		hits = 0
		cache := newMemCache()
		loader := newTestLoader(srv.URL, cache, time.Hour)

		_, err := loader.Load(ctx)
		require.NoError(t, err)

		loader.clock = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = loader.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 2, hits)
	})

	t.Run("version mismatch refetches", func(t *testing.T) {
		hits = 0
		cache := newMemCache()
		require.NoError(t, cache.Set(srv.URL, []byte(matrixDoc), cacheVersion+1, time.Now().Unix()))

		_, err := newTestLoader(srv.URL, cache, time.Hour).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, hits)
	})

	t.Run("zero TTL disables the cache read", func(t *testing.T) {
		hits = 0
		cache := newMemCache()
		loader := newTestLoader(srv.URL, cache, 0)

		_, err := loader.Load(ctx)
		require.NoError(t, err)
		_, err = loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, hits)
	})
}

// TestDecodeMatrix tests document decoding edge cases.
func TestDecodeMatrix(t *testing.T) {
	t.Run("invalid JSON is a parse error", func(t *testing.T) {
		_, err := decodeMatrix("doc", []byte("{not json"))
		var perr *contract.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("non-array root is a parse error", func(t *testing.T) {
		_, err := decodeMatrix("doc", []byte(`{"repo": "x"}`))
		var perr *contract.ParseError
		assert.ErrorAs(t, err, &perr)
	})

	t.Run("non-object rows are dropped", func(t *testing.T) {
		rows, err := decodeMatrix("doc", []byte(`[{"repo": "a"}, "junk", 42, {"repo": "b"}]`))
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("empty array is fine", func(t *testing.T) {
		rows, err := decodeMatrix("doc", []byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

// TestIsURL tests source kind detection.
func TestIsURL(t *testing.T) {
	assert.True(t, isURL("https://owasp.org/matrix.json"))
	assert.True(t, isURL("http://localhost:8080/m.json"))
	assert.False(t, isURL("data/metadata_matrix.json"))
	assert.False(t, isURL("/abs/path.json"))
}
