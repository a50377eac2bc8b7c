package cmd

import (
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd computes per-field presence statistics.
var statsCmd = &cobra.Command{
	Use:   "stats [source]",
	Short: "Show per-field completeness across all projects.",
	Long: `Normalize the metadata matrix and rank every field by how many
projects fill it in.

Each field gets a presence count and a percentage over the filtered
record set. An explicit false counts as present: a project that
answered "no" still answered.

Use this to:
- Spot fields that most projects leave empty
- Track how metadata adoption improves over time
- Decide which fields are worth chasing maintainers about

Examples:
  # Rank fields over active projects (default)
  metalens stats

  # Include archived projects
  metalens stats --filter all

  # Read the matrix from a URL and export to CSV
  metalens stats https://example.com/metadata_matrix.json --output csv --output-file stats.csv

  # Persist the run for trend tracking
  metalens stats --snapshot-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFieldStats(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute field stats", err)
		}
	},
}
