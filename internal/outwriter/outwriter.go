// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteFieldStats prints per-field presence statistics using the configured output format.
func (ow *OutWriter) WriteFieldStats(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WriteFieldStatResults(snap, cfg, duration)
}

// WriteSummary prints dataset-wide summary statistics using the configured output format.
func (ow *OutWriter) WriteSummary(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WriteSummaryResults(snap, cfg, duration)
}

// WriteBuckets prints the completeness histogram using the configured output format.
func (ow *OutWriter) WriteBuckets(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WriteBucketResults(snap, cfg, duration)
}

// WritePhases prints the SDLC phase breakdown using the configured output format.
func (ow *OutWriter) WritePhases(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WritePhaseResults(snap, cfg, duration)
}

// WriteTable prints the per-record field matrix using the configured output format.
func (ow *OutWriter) WriteTable(snap schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	return WriteTableResults(snap, cfg, duration)
}

// WriteRuns prints persisted stats runs using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return WriteRunResults(runs, cfg)
}

// getMaxTableNameWidth calculates the maximum width for repo names in table
// output based on terminal width and the number of field columns shown.
func getMaxTableNameWidth(cfg *contract.Config, fieldColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank and Filled columns plus borders/padding
	baseWidth := 20

	// Each field column renders a glyph or short text with padding
	baseWidth += fieldColumns * 9

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable name width
		return 15
	}
	if available > 60 {
		// Maximum name width to prevent overly long names
		return 60
	}
	return available
}
