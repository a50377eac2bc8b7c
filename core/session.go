package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
)

// ErrReloadInFlight is returned when a reload is requested while a
// previous one is still pending. Reloads are serialized so a stale
// response can never overwrite a newer dataset.
var ErrReloadInFlight = errors.New("a reload is already in flight")

// Session owns the canonical dataset for the lifetime of a dashboard
// run. The dataset is an immutable snapshot replaced wholesale on
// reload, never mutated field by field, so readers never observe a
// partially updated structure. Filter changes trigger a full
// synchronous recomputation of the statistics.
type Session struct {
	mu        sync.RWMutex
	reloading bool

	source contract.MatrixSource

	records []schema.CanonicalRecord
	filter  schema.ArchiveFilter
	query   Query
}

// NewSession creates a session bound to a matrix source. The default
// archive filter is ActiveOnly.
func NewSession(source contract.MatrixSource) *Session {
	return &Session{
		source: source,
		filter: schema.ActiveOnly,
	}
}

// Reload fetches and normalizes a fresh dataset, replacing the current
// one by assignment. Concurrent reload requests are rejected with
// ErrReloadInFlight rather than queued. On fetch or parse failure the
// session keeps its previous (possibly empty) dataset.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	if s.reloading {
		s.mu.Unlock()
		return ErrReloadInFlight
	}
	s.reloading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.reloading = false
		s.mu.Unlock()
	}()

	raw, err := s.source.Load(ctx)
	if err != nil {
		return err
	}
	records := Normalize(raw)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// SetArchiveFilter changes which records participate in statistics.
func (s *Session) SetArchiveFilter(filter schema.ArchiveFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
}

// SetQuery changes the structural/full-text query for table views.
func (s *Session) SetQuery(q Query) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// Records returns the full canonical dataset.
func (s *Session) Records() []schema.CanonicalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// View computes an internally consistent snapshot for the currently
// active filter: the statistics always describe exactly the record
// set in the snapshot. Export surfaces read only this structure.
func (s *Session) View() schema.Snapshot {
	s.mu.RLock()
	records, filter, query := s.records, s.filter, s.query
	s.mu.RUnlock()

	filtered := SelectMatching(SelectArchive(records, filter), query)
	stats := ComputeFieldStats(filtered)

	return schema.Snapshot{
		GeneratedAt: time.Now(),
		Filter:      filter,
		Records:     filtered,
		FieldStats:  stats,
		Summary:     ComputeSummary(records, filtered, stats),
		Histogram:   BucketCompleteness(filtered, len(stats)),
		Phases:      CountPhases(filtered),
	}
}
