package source

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/osshealth/metalens/schema"
)

// Output file names under the data directory, matching the paths the
// dashboards load from.
const (
	MetadataFile = "metadata.json"
	MatrixFile   = "metadata_matrix.json"
	MatrixCSV    = "metadata_matrix.csv"
	SummaryFile  = "metadata_summary.md"
)

// WriteOutputs persists the scrape result: the full metadata rows, the
// presence matrix (JSON and CSV), and a markdown field-count summary.
func WriteOutputs(result *ScrapeResult, dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", dataDir, err)
	}

	if err := writeJSONFile(filepath.Join(dataDir, MetadataFile), result.Rows); err != nil {
		return err
	}

	fields := matrixFields(result.Rows)
	matrix := buildMatrix(result.Rows, fields)
	if err := writeJSONFile(filepath.Join(dataDir, MatrixFile), matrix); err != nil {
		return err
	}
	if err := writeMatrixCSV(filepath.Join(dataDir, MatrixCSV), matrix, fields); err != nil {
		return err
	}

	return writeSummary(filepath.Join(dataDir, SummaryFile), result)
}

// matrixFields returns the sorted field names across all rows,
// excluding the identifying and status columns.
func matrixFields(rows []schema.RawRecord) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			switch k {
			case schema.RepoField, schema.ArchivedField, schema.SourceField:
			default:
				seen[k] = true
			}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// buildMatrix reduces full rows to the presence matrix: each field is
// a checkmark when filled, empty otherwise.
func buildMatrix(rows []schema.RawRecord, fields []string) []schema.RawRecord {
	matrix := make([]schema.RawRecord, 0, len(rows))
	for _, row := range rows {
		out := schema.RawRecord{
			schema.RepoField:     row[schema.RepoField],
			schema.ArchivedField: row[schema.ArchivedField],
		}
		for _, f := range fields {
			if filled(row[f]) {
				out[f] = schema.CheckGlyph
			} else {
				out[f] = ""
			}
		}
		matrix = append(matrix, out)
	}
	return matrix
}

// filled mirrors the upstream presence rule: nil, empty string and
// false are unfilled.
func filled(v any) bool {
	switch it := v.(type) {
	case nil:
		return false
	case string:
		return it != ""
	case bool:
		return it
	default:
		return true
	}
}

func writeJSONFile(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

func writeMatrixCSV(path string, matrix []schema.RawRecord, fields []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{schema.RepoField, schema.ArchivedField}, fields...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range matrix {
		rec := make([]string, 0, len(header))
		repo, _ := row[schema.RepoField].(string)
		rec = append(rec, repo, fmt.Sprint(row[schema.ArchivedField]))
		for _, fld := range fields {
			val, _ := row[fld].(string)
			rec = append(rec, val)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeSummary emits the markdown field frequency tables.
func writeSummary(path string, result *ScrapeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	write := func(title string, counts map[string]int) {
		fmt.Fprintf(f, "## %s\n\n", title)
		fmt.Fprintln(f, "| Field | Count |\n|---|---|")
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(f, "| %s | %d |\n", k, counts[k])
		}
		fmt.Fprintln(f)
	}

	fmt.Fprint(f, "# Metadata Summary\n\n")
	write("Front Matter Fields (index.md)", result.FrontKeys)
	write("Sidebar Fields (info.md, leaders.md)", result.SidebarKeys)
	return nil
}
