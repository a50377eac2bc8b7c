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
	"github.com/olekukonko/tablewriter/tw"
)

// WriteFieldStatResults outputs per-field presence statistics,
// dispatching based on the output format configured.
func WriteFieldStatResults(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeFieldStatJSONResults(snap, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeFieldStatCSVResults(snap, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFieldStatTable(snap, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeFieldStatJSONResults handles opening the file and calling the JSON writer.
func writeFieldStatJSONResults(snap schema.Snapshot, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForFieldStats(w, snap)
	}, "Wrote JSON")
}

// writeFieldStatCSVResults handles opening the file and calling the CSV writer.
func writeFieldStatCSVResults(snap schema.Snapshot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForFieldStats(csvWriter, snap, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeFieldStatTable generates and writes the human-readable table.
func writeFieldStatTable(snap schema.Snapshot, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerText(cfg, "📊", "Field completeness")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Field", "Count", "Pct", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, fs := range sortedFieldStats(snap.FieldStats) {
		row := []string{
			strconv.Itoa(i + 1), // Rank
			fs.Name,
			fmt.Sprintf(intFmt, fs.Stat.Count),
			fmtFloat(fs.Stat.Percentage),
			coverageLabel(cfg, fs.Stat.Percentage),
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d fields over %d records (filter: %s)\n",
		len(snap.FieldStats), len(snap.Records), snap.Filter); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForFieldStats writes per-field statistics in CSV format.
func writeCSVResultsForFieldStats(w *csv.Writer, snap schema.Snapshot, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"field",
		"count",
		"percentage",
		"label",
		"filter",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, fs := range sortedFieldStats(snap.FieldStats) {
		rec := []string{
			strconv.Itoa(i + 1),                       // Rank
			fs.Name,                                   // Field name
			fmt.Sprintf(intFmt, fs.Stat.Count),        // Present count
			fmtFloat(fs.Stat.Percentage),              // Presence percentage
			contract.GetPlainLabel(fs.Stat.Percentage), // Label
			string(snap.Filter),                       // Archive filter
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForFieldStats writes per-field statistics in JSON format.
func writeJSONResultsForFieldStats(w io.Writer, snap schema.Snapshot) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONFieldStat struct {
		Rank  int    `json:"rank"`
		Field string `json:"field"`
		Label string `json:"label"`
		schema.FieldStat
	}

	ordered := sortedFieldStats(snap.FieldStats)
	output := make([]JSONFieldStat, len(ordered))
	for i, fs := range ordered {
		output[i] = JSONFieldStat{
			Rank:      i + 1,
			Field:     fs.Name,
			Label:     contract.GetPlainLabel(fs.Stat.Percentage),
			FieldStat: fs.Stat,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
