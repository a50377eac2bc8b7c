// Package core has core logic for normalization, filtering and statistics.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/osshealth/metalens/schema"
)

// Normalize converts raw heterogeneous records into canonical records.
// It is a pure, total function: malformed values degrade to text or
// absent, they never fail. Every raw record maps to exactly one
// canonical record.
//
// Policy decisions, applied uniformly:
//   - keys are trimmed and lower-cased; when two raw keys collapse to
//     the same canonical key, the later one in iteration order wins
//   - absent fields are omitted from the field map, not stored as nulls
func Normalize(raw []schema.RawRecord) []schema.CanonicalRecord {
	records := make([]schema.CanonicalRecord, 0, len(raw))
	for _, row := range raw {
		records = append(records, normalizeRecord(row))
	}
	return records
}

// normalizeRecord maps a single raw row to its canonical shape. The
// identifying repo name and the archive status are lifted out of the
// field map.
func normalizeRecord(row schema.RawRecord) schema.CanonicalRecord {
	rec := schema.CanonicalRecord{Fields: make(map[string]schema.Value, len(row))}
	for key, raw := range row {
		name := NormalizeKey(key)
		switch name {
		case schema.RepoField:
			if v := NormalizeValue(raw); v.Kind == schema.TextValue {
				rec.Repo = v.Text
			}
		case schema.ArchivedField:
			rec.Archived = IsArchived(raw)
		default:
			v := NormalizeValue(raw)
			if !v.Present() {
				delete(rec.Fields, name) // last-write-wins, even for absent
				continue
			}
			rec.Fields[name] = v
		}
	}
	return rec
}

// NormalizeKey canonicalizes a field name: trimmed and lower-cased.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// NormalizeValue coerces a raw value into the canonical tri-state
// shape. The checks form a total order; the first match wins:
//
//  1. nil -> absent
//  2. native bool -> boolean
//  3. stringified + trimmed token in {true, yes, 1, ✔} -> true,
//     {false, no, 0, ✘} -> false (case-insensitive)
//  4. non-empty after trimming -> text
//  5. otherwise -> absent
//
// Unexpected shapes (arrays, objects) coerce via string conversion
// before the trim check.
func NormalizeValue(raw any) schema.Value {
	if raw == nil {
		return schema.Absent()
	}
	if b, ok := raw.(bool); ok {
		return schema.Boolean(b)
	}

	text := strings.TrimSpace(stringify(raw))
	switch strings.ToLower(text) {
	case "true", "yes", "1", schema.CheckGlyph:
		return schema.Boolean(true)
	case "false", "no", "0", schema.CrossGlyph:
		return schema.Boolean(false)
	}
	if text == "" {
		return schema.Absent()
	}
	return schema.Text(text)
}

// IsArchived is the dedicated archive-status predicate. It returns
// true iff the value normalizes to a true boolean (which covers the
// literal checkmark glyph). All other values, including absent, read
// as not archived. The predicate is total and never fails.
func IsArchived(raw any) bool {
	v := NormalizeValue(raw)
	return v.Kind == schema.BooleanValue && v.Bool
}

// stringify renders a raw value as text. JSON numbers arrive as
// float64, so integral floats must print without a fraction for the
// "1"/"0" boolean tokens to match.
func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case []any, map[string]any:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// Denormalize converts a canonical record back into a raw row. Used
// by exporters and round-trip tests; re-normalizing the result yields
// the same canonical values.
func Denormalize(rec schema.CanonicalRecord) schema.RawRecord {
	row := schema.RawRecord{
		schema.RepoField:     rec.Repo,
		schema.ArchivedField: rec.Archived,
	}
	for name, v := range rec.Fields {
		row[name] = v.Raw()
	}
	return row
}
