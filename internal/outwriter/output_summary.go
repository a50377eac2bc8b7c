package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteSummaryResults outputs dataset-wide summary statistics,
// dispatching based on the output format configured.
func WriteSummaryResults(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snap.Summary)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, snap.Summary, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(snap, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryCSV writes the summary as a single CSV row.
func writeSummaryCSV(w io.Writer, s schema.SummaryStats, fmtFloat func(float64) string) error {
	header := []string{
		"total_records",
		"active_records",
		"archived_records",
		"with_metadata",
		"total_fields",
		"completeness_rate",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		return cw.Write([]string{
			strconv.Itoa(s.TotalRecords),
			strconv.Itoa(s.ActiveRecords),
			strconv.Itoa(s.ArchivedRecords),
			strconv.Itoa(s.WithMetadata),
			strconv.Itoa(s.TotalFields),
			fmtFloat(s.CompletenessRate),
		})
	})
}

// writeSummaryTable generates and writes the human-readable summary panel.
func writeSummaryTable(snap schema.Snapshot, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	s := snap.Summary

	if _, err := fmt.Fprintln(writer, headerText(cfg, "📋", "Dataset summary")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Value"})

	data := [][]string{
		{"Total records", strconv.Itoa(s.TotalRecords)},
		{"Active records", strconv.Itoa(s.ActiveRecords)},
		{"Archived records", strconv.Itoa(s.ArchivedRecords)},
		{"With metadata", strconv.Itoa(s.WithMetadata)},
		{"Distinct fields", strconv.Itoa(s.TotalFields)},
		{"Completeness rate", fmtFloat(s.CompletenessRate) + "%"},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Filter: %s. Computed in %v.\n", snap.Filter, duration); err != nil {
		return err
	}
	return nil
}
