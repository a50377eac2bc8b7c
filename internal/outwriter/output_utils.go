package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// headerText prepends an emoji to a section header when emojis are enabled.
func headerText(cfg *contract.Config, emoji, text string) string {
	if cfg.UseEmojis {
		return emoji + " " + text
	}
	return text
}

// coverageLabel returns a colored or plain coverage label depending on
// the color setting.
func coverageLabel(cfg *contract.Config, percentage float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel(percentage)
	}
	return contract.GetPlainLabel(percentage)
}

// namedFieldStat pairs a field name with its presence statistic so
// stats can be ordered for display.
type namedFieldStat struct {
	Name string
	Stat schema.FieldStat
}

// sortedFieldStats orders field statistics by count descending, then by
// name ascending so ties render deterministically.
func sortedFieldStats(stats map[string]schema.FieldStat) []namedFieldStat {
	out := make([]namedFieldStat, 0, len(stats))
	for name, stat := range stats {
		out = append(out, namedFieldStat{Name: name, Stat: stat})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stat.Count != out[j].Stat.Count {
			return out[i].Stat.Count > out[j].Stat.Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// limitRecords caps the number of records shown in table output.
func limitRecords(records []schema.CanonicalRecord, limit int) []schema.CanonicalRecord {
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
