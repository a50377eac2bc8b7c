package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// barMaxWidth is the width of the longest histogram bar in text output.
const barMaxWidth = 30

// WriteBucketResults outputs the completeness histogram, dispatching
// based on the output format configured.
func WriteBucketResults(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snap.Histogram)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketCSV(w, snap, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBucketTable(snap, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeBucketCSV writes the histogram in CSV format.
func writeBucketCSV(w io.Writer, snap schema.Snapshot, fmtFloat func(float64) string) error {
	total := len(snap.Records)
	header := []string{"bucket", "count", "share"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, b := range snap.Histogram {
			rec := []string{
				b.Label,
				strconv.Itoa(b.Count),
				fmtFloat(share(b.Count, total)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeBucketTable generates and writes the human-readable histogram.
func writeBucketTable(snap schema.Snapshot, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerText(cfg, "📈", "Completeness distribution")); err != nil {
		return err
	}

	total := len(snap.Records)
	maxCount := 0
	for _, b := range snap.Histogram {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Bucket", "Count", "Share", "Bar"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, b := range snap.Histogram {
		row := []string{
			b.Label,
			strconv.Itoa(b.Count),
			fmtFloat(share(b.Count, total)) + "%",
			bar(b.Count, maxCount),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%d records bucketed by completeness (filter: %s). Computed in %v.\n",
		total, snap.Filter, duration); err != nil {
		return err
	}
	return nil
}

// share returns a percentage share guarded against an empty set.
func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// bar renders a proportional histogram bar.
func bar(count, maxCount int) string {
	if maxCount == 0 || count == 0 {
		return ""
	}
	width := count * barMaxWidth / maxCount
	if width == 0 {
		width = 1 // Non-empty buckets always get a visible bar
	}
	return strings.Repeat("█", width)
}
