// Package schema has configs, models and shared types for all parts of metalens.
package schema

import (
	"encoding/json"
	"time"
)

// RawRecord is an unprocessed input row as received from the matrix
// file: arbitrary string keys mapped to mixed-type values (string,
// bool, number, null, or a checkmark glyph standing in for a boolean).
type RawRecord map[string]any

// Value is the canonical tri-state field value: present text, an
// explicit boolean, or absent. The zero Value is absent.
type Value struct {
	Kind ValueKind
	Bool bool   // set when Kind == BooleanValue
	Text string // set when Kind == TextValue
}

// Present reports whether the value carries data. An explicit false is
// present: a field set to false was filled in, unlike one never asked.
func (v Value) Present() bool {
	return v.Kind != AbsentValue
}

// Raw converts the value back to its loosest JSON representation.
// Used by exporters and by idempotence checks.
func (v Value) Raw() any {
	switch v.Kind {
	case BooleanValue:
		return v.Bool
	case TextValue:
		return v.Text
	default:
		return nil
	}
}

// MarshalJSON renders the value in its loosest JSON form: booleans as
// booleans, text as strings, absent as null. This keeps exported
// records byte-compatible with the upstream matrix format.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw())
}

// UnmarshalJSON is the inverse of MarshalJSON: null becomes absent,
// booleans and strings map onto their kinds, and any other scalar is
// kept as its textual form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Absent()
	case bool:
		*v = Boolean(t)
	case string:
		*v = Text(t)
	default:
		*v = Text(string(data))
	}
	return nil
}

// Boolean returns a present boolean value.
func Boolean(b bool) Value { return Value{Kind: BooleanValue, Bool: b} }

// Text returns a present text value.
func Text(s string) Value { return Value{Kind: TextValue, Text: s} }

// Absent returns the absent value.
func Absent() Value { return Value{} }

// CanonicalRecord is a normalized record: trimmed, lower-cased field
// names mapped to tri-state values. The identifying repo name and the
// archive status are lifted out of the field map, so Fields holds only
// metadata fields. Absent fields are not stored.
type CanonicalRecord struct {
	Repo     string           `json:"repo"`
	Archived bool             `json:"archived"`
	Fields   map[string]Value `json:"fields"`
}

// PresentFieldCount returns the number of metadata fields carrying a
// present value.
func (r CanonicalRecord) PresentFieldCount() int {
	n := 0
	for _, v := range r.Fields {
		if v.Present() {
			n++
		}
	}
	return n
}

// HasAnyMetadata reports whether at least one non-identifying field is
// present.
func (r CanonicalRecord) HasAnyMetadata() bool {
	return r.PresentFieldCount() > 0
}

// FieldStat holds per-field presence statistics over the currently
// active (filtered) record set.
type FieldStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"` // rounded to 1 decimal
}

// SummaryStats aggregates dataset-wide counts for the summary panel.
type SummaryStats struct {
	TotalRecords     int     `json:"total_records"` // unfiltered
	ActiveRecords    int     `json:"active_records"`
	ArchivedRecords  int     `json:"archived_records"`
	WithMetadata     int     `json:"with_metadata"` // filtered records with >=1 field present
	TotalFields      int     `json:"total_fields"`
	CompletenessRate float64 `json:"completeness_rate"` // percentage, 1 decimal
}

// BucketCount is one completeness histogram bucket.
type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PhaseCount is one row of the heuristic SDLC phase breakdown.
type PhaseCount struct {
	Phase Phase `json:"phase"`
	Count int   `json:"count"`
}

// Snapshot is the internally consistent view handed to rendering and
// export collaborators: the filtered records and the statistics that
// describe exactly that set. Consumers must treat it as read-only.
type Snapshot struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Filter      ArchiveFilter        `json:"filter"`
	Records     []CanonicalRecord    `json:"records"`
	FieldStats  map[string]FieldStat `json:"field_stats"`
	Summary     SummaryStats         `json:"summary"`
	Histogram   []BucketCount        `json:"histogram"`
	Phases      []PhaseCount         `json:"phases"`
}

// CacheStatus holds status information about a cache store.
type CacheStatus struct {
	Backend         string
	Connected       bool
	TotalEntries    int64
	LastEntryTime   time.Time
	OldestEntryTime time.Time
	TableSizeBytes  int64
}

// SnapshotStatus holds status information about the snapshot store.
type SnapshotStatus struct {
	Backend        string
	Connected      bool
	TotalRuns      int64
	TotalFieldRows int64
	LastRunTime    time.Time
}

// RunRecord is one persisted stats run, as read back from the
// snapshot store.
type RunRecord struct {
	RunID            int64
	RunTime          time.Time
	Source           string
	Filter           string
	TotalRecords     int32
	FilteredRecords  int32
	TotalFields      int32
	CompletenessRate float64
}

// FieldStatRecord is one persisted per-field statistic row.
type FieldStatRecord struct {
	RunID      int64
	FieldName  string
	Count      int32
	Percentage float64
}
