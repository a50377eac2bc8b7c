// Package parquet provides data structures and functions for exporting
// persisted stats runs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/osshealth/metalens/schema"
	"github.com/parquet-go/parquet-go"
)

// StatsRun represents a single persisted stats run with metadata.
// This struct maps to the metalens_runs database table.
type StatsRun struct {
	// RunID is the unique identifier for this stats run
	RunID int64 `parquet:"run_id,snappy"`

	// RunTime is when the run was recorded (stored as TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	// Source is the matrix file or URL the run was computed from
	Source string `parquet:"source,snappy"`

	// ArchiveFilter is the archive filter that was active during the run
	ArchiveFilter string `parquet:"archive_filter,snappy"`

	// TotalRecords is the unfiltered record count
	TotalRecords int32 `parquet:"total_records,snappy"`

	// FilteredRecords is the record count after archive and query filtering
	FilteredRecords int32 `parquet:"filtered_records,snappy"`

	// TotalFields is the number of distinct metadata fields observed
	TotalFields int32 `parquet:"total_fields,snappy"`

	// CompletenessRate is the overall completeness percentage for the run
	CompletenessRate float64 `parquet:"completeness_rate,snappy"`
}

// FieldPresence represents one per-field statistic row from a run.
// This struct maps to the metalens_field_stats database table.
type FieldPresence struct {
	// RunID references the parent stats run
	RunID int64 `parquet:"run_id,snappy"`

	// FieldName is the normalized metadata field name
	FieldName string `parquet:"field_name,snappy"`

	// PresentCount is the number of records carrying the field
	PresentCount int32 `parquet:"present_count,snappy"`

	// Percentage is the presence percentage over the filtered set
	Percentage float64 `parquet:"percentage,snappy"`
}

// WriteStatsRunsParquet writes a slice of StatsRun structs to a Parquet file.
func WriteStatsRunsParquet(data []StatsRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the StatsRun struct tags
	writer := parquet.NewGenericWriter[StatsRun](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFieldPresenceParquet writes a slice of FieldPresence structs to a Parquet file.
func WriteFieldPresenceParquet(data []FieldPresence, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the FieldPresence struct tags
	writer := parquet.NewGenericWriter[FieldPresence](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to StatsRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []StatsRun {
	result := make([]StatsRun, len(records))
	for i, record := range records {
		result[i] = StatsRun{
			RunID:            record.RunID,
			RunTime:          record.RunTime,
			Source:           record.Source,
			ArchiveFilter:    record.Filter,
			TotalRecords:     record.TotalRecords,
			FilteredRecords:  record.FilteredRecords,
			TotalFields:      record.TotalFields,
			CompletenessRate: record.CompletenessRate,
		}
	}
	return result
}

// ConvertFieldStatRecords converts schema.FieldStatRecord to FieldPresence for Parquet export.
func ConvertFieldStatRecords(records []schema.FieldStatRecord) []FieldPresence {
	result := make([]FieldPresence, len(records))
	for i, record := range records {
		result[i] = FieldPresence{
			RunID:        record.RunID,
			FieldName:    record.FieldName,
			PresentCount: record.Count,
			Percentage:   record.Percentage,
		}
	}
	return result
}
