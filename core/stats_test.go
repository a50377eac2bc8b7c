package core

import (
	"testing"

	"github.com/osshealth/metalens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeFieldStats tests per-field presence counting.
func TestComputeFieldStats(t *testing.T) {
	t.Run("false counts as present", func(t *testing.T) {
		records := Normalize([]schema.RawRecord{
			{"repo": "a", "tag": "✔"},
			{"repo": "b", "tag": "✘"},
			{"repo": "c", "tag": nil},
		})
		stats := ComputeFieldStats(records)
		assert.Equal(t, schema.FieldStat{Count: 2, Percentage: 66.7}, stats["tag"])
	})

	t.Run("field filled only in filtered-out records reads as zero", func(t *testing.T) {
		records := Normalize([]schema.RawRecord{
			{"repo": "a", "archived": "true", "level": "3"},
			{"repo": "b", "level": nil},
		})
		active := SelectArchive(records, schema.ActiveOnly)
		require.Len(t, active, 1)
		assert.Equal(t, "b", active[0].Repo)

		stats := ComputeFieldStats(active)
		assert.Equal(t, schema.FieldStat{Count: 0, Percentage: 0}, stats["level"])

		sum := ComputeSummary(records, active, stats)
		assert.Equal(t, 2, sum.TotalRecords)
		assert.Equal(t, 1, sum.ActiveRecords)
		assert.Equal(t, 1, sum.ArchivedRecords)
	})

	t.Run("empty record set yields empty map", func(t *testing.T) {
		stats := ComputeFieldStats(nil)
		assert.NotNil(t, stats)
		assert.Empty(t, stats)
	})

	t.Run("identifying fields never appear", func(t *testing.T) {
		records := Normalize([]schema.RawRecord{
			{"repo": "a", "archived": true, "license": "MIT"},
		})
		stats := ComputeFieldStats(records)
		assert.NotContains(t, stats, "repo")
		assert.NotContains(t, stats, "archived")
	})

	t.Run("percentages stay within bounds", func(t *testing.T) {
		records := Normalize([]schema.RawRecord{
			{"repo": "a", "x": "1", "y": "t1"},
			{"repo": "b", "x": "0"},
			{"repo": "c", "y": "t2"},
		})
		for name, s := range ComputeFieldStats(records) {
			assert.GreaterOrEqual(t, s.Percentage, 0.0, name)
			assert.LessOrEqual(t, s.Percentage, 100.0, name)
		}
	})
}

// TestComputeSummary tests dataset-wide aggregates.
func TestComputeSummary(t *testing.T) {
	full := Normalize([]schema.RawRecord{
		{"repo": "active-1", "archived": false, "license": "MIT"},
		{"repo": "active-2", "archived": "no"},
		{"repo": "retired", "archived": "true", "license": "GPL-2.0"},
	})
	filtered := SelectArchive(full, schema.ActiveOnly)
	stats := ComputeFieldStats(filtered)

	sum := ComputeSummary(full, filtered, stats)
	assert.Equal(t, 3, sum.TotalRecords)
	assert.Equal(t, 2, sum.ActiveRecords)
	assert.Equal(t, 1, sum.ArchivedRecords)
	assert.Equal(t, 1, sum.WithMetadata)
	assert.Equal(t, 1, sum.TotalFields)
	assert.Equal(t, 50.0, sum.CompletenessRate)

	t.Run("empty input degrades to zeroes", func(t *testing.T) {
		sum := ComputeSummary(nil, nil, map[string]schema.FieldStat{})
		assert.Equal(t, schema.SummaryStats{}, sum)
	})
}

// TestBucketCompleteness tests the histogram bucketing.
func TestBucketCompleteness(t *testing.T) {
	rec := func(present int) schema.CanonicalRecord {
		fields := make(map[string]schema.Value, present)
		for i := 0; i < present; i++ {
			fields[string(rune('a'+i))] = schema.Text("x")
		}
		return schema.CanonicalRecord{Repo: "r", Fields: fields}
	}

	t.Run("boundary fractions", func(t *testing.T) {
		records := []schema.CanonicalRecord{
			rec(0), rec(1), rec(2), rec(3), rec(4), rec(5),
		}
		histogram := BucketCompleteness(records, 4)

		byLabel := make(map[string]int, len(histogram))
		for _, b := range histogram {
			byLabel[b.Label] = b.Count
		}
		assert.Equal(t, 1, byLabel["0%"])
		assert.Equal(t, 1, byLabel["1-25%"])  // 1/4
		assert.Equal(t, 1, byLabel["26-50%"]) // 2/4
		assert.Equal(t, 1, byLabel["51-75%"]) // 3/4
		assert.Equal(t, 0, byLabel["76-99%"])
		assert.Equal(t, 2, byLabel["100%"]) // 4/4 and 5/4 clamp high
	})

	t.Run("counts sum to record count", func(t *testing.T) {
		records := []schema.CanonicalRecord{rec(0), rec(1), rec(3), rec(7), rec(10)}
		total := 0
		for _, b := range BucketCompleteness(records, 10) {
			total += b.Count
		}
		assert.Equal(t, len(records), total)
	})

	t.Run("all buckets present even when empty", func(t *testing.T) {
		histogram := BucketCompleteness(nil, 10)
		assert.Len(t, histogram, len(schema.BucketLabels))
		for i, b := range histogram {
			assert.Equal(t, schema.BucketLabels[i], b.Label)
			assert.Zero(t, b.Count)
		}
	})

	t.Run("zero fields means zero fraction", func(t *testing.T) {
		histogram := BucketCompleteness([]schema.CanonicalRecord{rec(0)}, 0)
		assert.Equal(t, 1, histogram[0].Count)
	})
}

// TestBucketLabel tests fraction-to-bucket mapping at the edges.
func TestBucketLabel(t *testing.T) {
	assert.Equal(t, "0%", bucketLabel(0))
	assert.Equal(t, "1-25%", bucketLabel(0.01))
	assert.Equal(t, "1-25%", bucketLabel(0.25))
	assert.Equal(t, "26-50%", bucketLabel(0.26))
	assert.Equal(t, "26-50%", bucketLabel(0.50))
	assert.Equal(t, "51-75%", bucketLabel(0.75))
	assert.Equal(t, "76-99%", bucketLabel(0.76))
	assert.Equal(t, "76-99%", bucketLabel(0.99))
	assert.Equal(t, "100%", bucketLabel(1.0))
}

// TestPercentOf tests rounding and the zero guard.
func TestPercentOf(t *testing.T) {
	assert.Equal(t, 0.0, percentOf(5, 0))
	assert.Equal(t, 66.7, percentOf(2, 3))
	assert.Equal(t, 33.3, percentOf(1, 3))
	assert.Equal(t, 100.0, percentOf(7, 7))
	assert.Equal(t, 0.0, percentOf(0, 9))
}
