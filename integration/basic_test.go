//go:build basic

package integration

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatsCommand runs the stats command against a local fixture.
func TestStatsCommand(t *testing.T) {
	matrix := writeMatrixFixture(t)

	output, err := runMetalensCommand(t, "stats", matrix, "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, output, "license")
	assert.Contains(t, output, "100.0")
}

// TestStatsJSON verifies JSON output decodes and respects the filter.
func TestStatsJSON(t *testing.T) {
	matrix := writeMatrixFixture(t)

	output, err := runMetalensCommand(t, "stats", matrix,
		"--output", "json", "--cache-backend", "none", "--emoji", "no", "--color", "no")
	require.NoError(t, err)

	var rows []struct {
		Field string  `json:"field"`
		Count int     `json:"count"`
		Pct   float64 `json:"percentage"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	require.NotEmpty(t, rows)

	byField := make(map[string]int, len(rows))
	for _, r := range rows {
		byField[r.Field] = r.Count
	}
	assert.Equal(t, 2, byField["license"], "archived record excluded by default")
}

// TestSummaryCommand checks the summary panel counts.
func TestSummaryCommand(t *testing.T) {
	matrix := writeMatrixFixture(t)

	output, err := runMetalensCommand(t, "summary", matrix,
		"--filter", "all", "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, output, "Total records")
	assert.Contains(t, output, "3")
}

// TestTableSearch checks the table view with a search query.
func TestTableSearch(t *testing.T) {
	matrix := writeMatrixFixture(t)

	output, err := runMetalensCommand(t, "table", matrix,
		"--search", "juice", "--cache-backend", "none")
	require.NoError(t, err)
	assert.Contains(t, output, "juice-shop")
	assert.NotContains(t, output, "www-project-zap")
}

// TestInvalidFilterFails verifies validation errors reach the user.
func TestInvalidFilterFails(t *testing.T) {
	matrix := writeMatrixFixture(t)

	_, err := runMetalensCommand(t, "stats", matrix, "--filter", "retired")
	assert.Error(t, err)
}

// TestVersionCommand checks the version output shape.
func TestVersionCommand(t *testing.T) {
	output, err := runMetalensCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "Version")
}
