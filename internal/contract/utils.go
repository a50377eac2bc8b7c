package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Completeness label constants.
const (
	CompleteValue = "Complete" // >= 90% of records carry the field
	HighValue     = "High"     // >= 60%
	PartialValue  = "Partial"  // >= 25%
	SparseValue   = "Sparse"   // everything below
)

// Color variables for console output.
var (
	CompleteColor = color.New(color.FgGreen, color.Bold) // completeColor signals a well-maintained field.
	HighColor     = color.New(color.FgCyan)              // highColor signals good coverage.
	PartialColor  = color.New(color.FgYellow)            // partialColor signals patchy coverage.
	SparseColor   = color.New(color.FgRed, color.Bold)   // sparseColor signals a mostly empty field.
)

// GetPlainLabel returns a plain text label describing field coverage
// based on the presence percentage. This is the core logic used for
// CSV, JSON, and table printing.
func GetPlainLabel(percentage float64) string {
	switch {
	case percentage >= 90:
		return CompleteValue
	case percentage >= 60:
		return HighValue
	case percentage >= 25:
		return PartialValue
	default:
		return SparseValue
	}
}

// GetColorLabel returns a colored coverage label for console output.
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(percentage float64) string {
	text := GetPlainLabel(percentage)

	switch text {
	case CompleteValue:
		return CompleteColor.Sprint(text)
	case HighValue:
		return HighColor.Sprint(text)
	case PartialValue:
		return PartialColor.Sprint(text)
	default: // "Sparse"
		return SparseColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output,
// based on the provided file path. Empty means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for
// document cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".metalens_cache.db"
	}
	return filepath.Join(homeDir, ".metalens_cache.db")
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for
// snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".metalens_snapshots.db"
	}
	return filepath.Join(homeDir, ".metalens_snapshots.db")
}

// TruncateName truncates a repo name to a maximum width with ellipsis
// prefix. Requires maxWidth > 3 so there is room for both the "..."
// prefix and at least one character of content.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return name
}
