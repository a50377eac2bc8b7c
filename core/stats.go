package core

import (
	"math"

	"github.com/osshealth/metalens/schema"
)

// ComputeFieldStats computes, per field name, the count and percentage
// of records where the field carries a present value. Identifying and
// archive-status fields never appear (they are lifted out of the field
// map during normalization). An explicit boolean false counts as
// present. Total function: an empty record set yields an empty map.
func ComputeFieldStats(records []schema.CanonicalRecord) map[string]schema.FieldStat {
	stats := make(map[string]schema.FieldStat)
	for _, rec := range records {
		for name, v := range rec.Fields {
			if !v.Present() {
				continue
			}
			s := stats[name]
			s.Count++
			stats[name] = s
		}
	}
	for name, s := range stats {
		s.Percentage = percentOf(s.Count, len(records))
		stats[name] = s
	}
	return stats
}

// ComputeSummary produces the dataset-wide aggregates: unfiltered
// total, active and archived counts, how many filtered records carry
// any metadata at all, the distinct field count, and the overall
// completeness rate over the filtered set. Degrades to zeroes on empty
// input instead of failing, so consumers always have something to
// render.
func ComputeSummary(full, filtered []schema.CanonicalRecord, fieldStats map[string]schema.FieldStat) schema.SummaryStats {
	sum := schema.SummaryStats{
		TotalRecords: len(full),
		TotalFields:  len(fieldStats),
	}
	for _, rec := range full {
		if rec.Archived {
			sum.ArchivedRecords++
		} else {
			sum.ActiveRecords++
		}
	}
	for _, rec := range filtered {
		if rec.HasAnyMetadata() {
			sum.WithMetadata++
		}
	}
	sum.CompletenessRate = percentOf(sum.WithMetadata, len(filtered))
	return sum
}

// BucketCompleteness buckets each record by its filled fraction:
// presentFieldCount / totalFieldCount (0 when totalFieldCount is 0).
// Boundaries are inclusive on the upper end except the final bucket,
// which requires exactly 100%. Every record lands in exactly one
// bucket, so the counts sum to len(records).
func BucketCompleteness(records []schema.CanonicalRecord, totalFieldCount int) []schema.BucketCount {
	counts := make(map[string]int, len(schema.BucketLabels))
	for _, rec := range records {
		var fraction float64
		if totalFieldCount > 0 {
			fraction = float64(rec.PresentFieldCount()) / float64(totalFieldCount)
		}
		counts[bucketLabel(fraction)]++
	}

	histogram := make([]schema.BucketCount, 0, len(schema.BucketLabels))
	for _, label := range schema.BucketLabels {
		histogram = append(histogram, schema.BucketCount{Label: label, Count: counts[label]})
	}
	return histogram
}

// bucketLabel maps a filled fraction to its histogram bucket.
func bucketLabel(fraction float64) string {
	switch {
	case fraction <= 0:
		return schema.BucketLabels[0] // 0%
	case fraction >= 1:
		return schema.BucketLabels[5] // 100%
	case fraction <= 0.25:
		return schema.BucketLabels[1] // 1-25%
	case fraction <= 0.50:
		return schema.BucketLabels[2] // 26-50%
	case fraction <= 0.75:
		return schema.BucketLabels[3] // 51-75%
	default:
		return schema.BucketLabels[4] // 76-99%
	}
}

// percentOf returns count/total as a percentage rounded to 1 decimal,
// guarding against division by zero.
func percentOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
