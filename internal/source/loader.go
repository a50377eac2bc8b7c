// Package source loads the metadata matrix from files or URLs and can
// regenerate it by scraping a GitHub organization.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
)

// cacheVersion invalidates previously cached documents when the cache
// entry layout changes.
const cacheVersion = 1

// maxDocumentBytes bounds how much of a response body is read.
const maxDocumentBytes = 64 << 20

// Loader fetches the matrix document from a local path or an HTTP(S)
// URL. Fetched URLs are cached through the document store with a TTL,
// mirroring the upstream scraper's 24h response cache.
type Loader struct {
	source string
	ttl    time.Duration
	client *http.Client
	cache  contract.CacheStore // nil disables caching
	clock  func() time.Time
}

var _ contract.MatrixSource = &Loader{} // Compile-time check

// NewLoader builds a Loader from validated configuration. The cache
// store may be nil when caching is disabled.
func NewLoader(cfg *contract.Config, cache contract.CacheStore) *Loader {
	return &Loader{
		source: cfg.Source,
		ttl:    cfg.CacheTTL,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
		clock:  time.Now,
	}
}

// Load retrieves and decodes the matrix into raw records. The only
// failure modes are FetchError (network, non-2xx, unreadable file) and
// ParseError (not JSON, not an array); malformed individual values are
// passed through for the normalizer to coerce.
func (l *Loader) Load(ctx context.Context) ([]schema.RawRecord, error) {
	var data []byte
	var err error

	if isURL(l.source) {
		data, err = l.fetchURL(ctx)
	} else {
		data, err = l.readFile()
	}
	if err != nil {
		return nil, err
	}

	return decodeMatrix(l.source, data)
}

// fetchURL retrieves the document over HTTP, consulting the cache
// first and storing fresh responses back.
func (l *Loader) fetchURL(ctx context.Context) ([]byte, error) {
	if data, ok := l.cachedDocument(); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, &contract.FetchError{Source: l.source, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &contract.FetchError{Source: l.source, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &contract.FetchError{Source: l.source, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, &contract.FetchError{Source: l.source, Err: err}
	}

	if l.cache != nil {
		if err := l.cache.Set(l.source, data, cacheVersion, l.clock().Unix()); err != nil {
			contract.LogWarn("could not cache document", err)
		}
	}
	return data, nil
}

// cachedDocument returns a cached response when one exists, matches
// the current cache version, and is still within the TTL.
func (l *Loader) cachedDocument() ([]byte, bool) {
	if l.cache == nil || l.ttl <= 0 {
		return nil, false
	}
	data, version, ts, err := l.cache.Get(l.source)
	if err != nil || version != cacheVersion {
		return nil, false
	}
	if l.clock().Sub(time.Unix(ts, 0)) > l.ttl {
		return nil, false
	}
	return data, true
}

// readFile loads the document from the local filesystem.
func (l *Loader) readFile() ([]byte, error) {
	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, &contract.FetchError{Source: l.source, Err: err}
	}
	return data, nil
}

// decodeMatrix parses the document as a JSON array of objects.
func decodeMatrix(source string, data []byte) ([]schema.RawRecord, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &contract.ParseError{Source: source, Err: err}
	}
	rows, ok := probe.([]any)
	if !ok {
		return nil, &contract.ParseError{Source: source, Err: fmt.Errorf("document root is not an array")}
	}

	records := make([]schema.RawRecord, 0, len(rows))
	for _, row := range rows {
		if obj, ok := row.(map[string]any); ok {
			records = append(records, schema.RawRecord(obj))
		}
		// Non-object rows are dirty data, not errors; they carry no
		// fields and are dropped.
	}
	return records, nil
}

// isURL reports whether the source names an HTTP(S) endpoint rather
// than a file path.
func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
