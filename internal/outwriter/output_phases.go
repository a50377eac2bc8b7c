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

// WritePhaseResults outputs the SDLC phase breakdown, dispatching based
// on the output format configured.
func WritePhaseResults(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snap.Phases)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePhaseCSV(w, snap, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePhaseTable(snap, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writePhaseCSV writes the phase breakdown in CSV format.
func writePhaseCSV(w io.Writer, snap schema.Snapshot, fmtFloat func(float64) string) error {
	total := len(snap.Records)
	header := []string{"phase", "count", "share"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range snap.Phases {
			rec := []string{
				string(p.Phase),
				strconv.Itoa(p.Count),
				fmtFloat(share(p.Count, total)),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writePhaseTable generates and writes the human-readable phase breakdown.
func writePhaseTable(snap schema.Snapshot, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerText(cfg, "🧭", "SDLC phase breakdown")); err != nil {
		return err
	}

	total := len(snap.Records)

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Phase", "Count", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range snap.Phases {
		row := []string{
			string(p.Phase),
			strconv.Itoa(p.Count),
			fmtFloat(share(p.Count, total)) + "%",
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%d records classified by keyword heuristic (filter: %s). Computed in %v.\n",
		total, snap.Filter, duration); err != nil {
		return err
	}
	return nil
}
