package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteRunResults outputs persisted stats runs, dispatching based on
// the output format configured.
func WriteRunResults(runs []schema.RunRecord, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunCSV(w, runs, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(runs, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeRunCSV writes runs in CSV format.
func writeRunCSV(w io.Writer, runs []schema.RunRecord, fmtFloat func(float64) string) error {
	header := []string{
		"run_id",
		"run_time",
		"source",
		"filter",
		"total_records",
		"filtered_records",
		"total_fields",
		"completeness_rate",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				r.RunTime.Format(contract.DateTimeFormat),
				r.Source,
				r.Filter,
				strconv.Itoa(int(r.TotalRecords)),
				strconv.Itoa(int(r.FilteredRecords)),
				strconv.Itoa(int(r.TotalFields)),
				fmtFloat(r.CompletenessRate),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRunTable generates and writes the human-readable run listing.
func writeRunTable(runs []schema.RunRecord, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerText(cfg, "🗃️", "Stats runs")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Run", "Time", "Source", "Filter", "Records", "Fields", "Rate"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		row := []string{
			strconv.FormatInt(r.RunID, 10),
			r.RunTime.Format(contract.DateTimeFormat),
			contract.TruncateName(r.Source, 40),
			r.Filter,
			fmt.Sprintf("%d/%d", r.FilteredRecords, r.TotalRecords),
			strconv.Itoa(int(r.TotalFields)),
			fmtFloat(r.CompletenessRate) + "%",
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d runs. Snapshot backend: %s\n", len(runs), cfg.SnapshotBackend); err != nil {
		return err
	}
	return nil
}
