package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"

	"github.com/olekukonko/tablewriter"
)

// WriteTableResults outputs the per-record field matrix, dispatching
// based on the output format configured.
func WriteTableResults(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fields := selectedFields(snap, cfg)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTableJSON(w, snap, cfg, fields)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTableCSV(w, snap, cfg, fields)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecordTable(snap, cfg, fields, duration, w)
		}, "Wrote table")
	}
	return nil
}

// selectedFields resolves the field columns to show. An explicit
// selection wins; otherwise every field observed in the snapshot is
// shown in sorted order.
func selectedFields(snap schema.Snapshot, cfg *contract.Config) []string {
	if len(cfg.Fields) > 0 && !(len(cfg.Fields) == 1 && strings.EqualFold(cfg.Fields[0], schema.AllFieldsSentinel)) {
		fields := make([]string, 0, len(cfg.Fields))
		for _, f := range cfg.Fields {
			fields = append(fields, strings.ToLower(strings.TrimSpace(f)))
		}
		return fields
	}

	seen := make(map[string]struct{})
	for _, rec := range snap.Records {
		for name := range rec.Fields {
			seen[name] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for name := range seen {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}

// cellGlyph renders a field value as a matrix cell. An explicit false
// keeps its cross glyph so it reads as answered-no rather than missing.
func cellGlyph(v schema.Value) string {
	switch v.Kind {
	case schema.BooleanValue:
		if v.Bool {
			return schema.CheckGlyph
		}
		return schema.CrossGlyph
	case schema.TextValue:
		return schema.CheckGlyph
	default:
		return ""
	}
}

// writeRecordTable generates and writes the human-readable matrix.
func writeRecordTable(snap schema.Snapshot, cfg *contract.Config, fields []string, duration time.Duration, writer io.Writer) error {
	if _, err := fmt.Fprintln(writer, headerText(cfg, "🗂️", "Record field matrix")); err != nil {
		return err
	}

	headers := []string{"Rank", "Repo", "Filled"}
	for _, f := range fields {
		headers = append(headers, f)
	}

	table := tablewriter.NewWriter(writer)
	table.Header(headers)

	nameWidth := getMaxTableNameWidth(cfg, len(fields))
	shown := limitRecords(snap.Records, cfg.ResultLimit)

	var data [][]string
	for i, rec := range shown {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncateName(rec.Repo, nameWidth),
			fmt.Sprintf("%d/%d", rec.PresentFieldCount(), snap.Summary.TotalFields),
		}
		for _, f := range fields {
			row = append(row, cellGlyph(rec.Fields[f]))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d of %d records (filter: %s). Computed in %v.\n",
		len(shown), len(snap.Records), snap.Filter, duration); err != nil {
		return err
	}
	return nil
}

// writeTableCSV writes the matrix in CSV format with raw values rather
// than glyphs so the output stays machine-friendly.
func writeTableCSV(w io.Writer, snap schema.Snapshot, cfg *contract.Config, fields []string) error {
	header := append([]string{"repo", "archived", "filled"}, fields...)
	shown := limitRecords(snap.Records, cfg.ResultLimit)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rec := range shown {
			row := []string{
				rec.Repo,
				strconv.FormatBool(rec.Archived),
				strconv.Itoa(rec.PresentFieldCount()),
			}
			for _, f := range fields {
				row = append(row, rawCell(rec.Fields[f]))
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// rawCell renders a field value for CSV output.
func rawCell(v schema.Value) string {
	switch v.Kind {
	case schema.BooleanValue:
		return strconv.FormatBool(v.Bool)
	case schema.TextValue:
		return v.Text
	default:
		return ""
	}
}

// writeTableJSON writes the matrix rows in JSON format.
func writeTableJSON(w io.Writer, snap schema.Snapshot, cfg *contract.Config, fields []string) error {
	type JSONRecord struct {
		Repo     string         `json:"repo"`
		Archived bool           `json:"archived"`
		Filled   int            `json:"filled"`
		Fields   map[string]any `json:"fields"`
	}

	shown := limitRecords(snap.Records, cfg.ResultLimit)
	output := make([]JSONRecord, len(shown))
	for i, rec := range shown {
		fieldValues := make(map[string]any, len(fields))
		for _, f := range fields {
			if v, ok := rec.Fields[f]; ok && v.Present() {
				fieldValues[f] = v.Raw()
			}
		}
		output[i] = JSONRecord{
			Repo:     rec.Repo,
			Archived: rec.Archived,
			Filled:   rec.PresentFieldCount(),
			Fields:   fieldValues,
		}
	}

	return writeJSON(w, output)
}
