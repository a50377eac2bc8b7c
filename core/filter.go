package core

import (
	"strings"

	"github.com/osshealth/metalens/schema"
)

// SelectArchive returns the records participating in statistics under
// the given archive filter. The selection is a non-mutating view:
// records are shared, never copied or modified. Every record is
// exactly active or archived, so ActiveOnly and ArchivedOnly always
// partition the dataset.
func SelectArchive(records []schema.CanonicalRecord, filter schema.ArchiveFilter) []schema.CanonicalRecord {
	if filter == schema.AllRecords {
		return records
	}
	wantArchived := filter == schema.ArchivedOnly
	out := make([]schema.CanonicalRecord, 0, len(records))
	for _, rec := range records {
		if rec.Archived == wantArchived {
			out = append(out, rec)
		}
	}
	return out
}

// Query is the structural + full-text predicate for table views. All
// conditions combine with logical AND. The zero Query matches every
// record.
type Query struct {
	// Search is a case-insensitive substring matched against the
	// identifying repo field only. Empty matches all.
	Search string

	// Fields restricts matches to records with a present value in at
	// least one named field. Empty, or the single sentinel "all",
	// disables the restriction.
	Fields []string

	// Completeness constrains by metadata presence across the full
	// field set, excluding identifying and status fields.
	Completeness schema.CompletenessMode
}

// Matches reports whether a record satisfies the query. The predicate
// is reevaluated in full on every change; at hundreds to low thousands
// of records there is nothing to index.
func Matches(rec schema.CanonicalRecord, q Query) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(rec.Repo), strings.ToLower(q.Search)) {
		return false
	}

	if !selectsAllFields(q.Fields) {
		found := false
		for _, name := range q.Fields {
			if v, ok := rec.Fields[NormalizeKey(name)]; ok && v.Present() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	switch q.Completeness {
	case schema.WithMetadata:
		return rec.HasAnyMetadata()
	case schema.WithoutMetadata:
		return !rec.HasAnyMetadata()
	default:
		return true
	}
}

// SelectMatching filters records by the query, preserving order.
func SelectMatching(records []schema.CanonicalRecord, q Query) []schema.CanonicalRecord {
	out := make([]schema.CanonicalRecord, 0, len(records))
	for _, rec := range records {
		if Matches(rec, q) {
			out = append(out, rec)
		}
	}
	return out
}

// selectsAllFields reports whether the field list is the "all fields"
// sentinel.
func selectsAllFields(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	return len(fields) == 1 && strings.EqualFold(fields[0], schema.AllFieldsSentinel)
}
