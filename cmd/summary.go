package cmd

import (
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd computes dataset-wide summary statistics.
var summaryCmd = &cobra.Command{
	Use:   "summary [source]",
	Short: "Show dataset-wide record and completeness counts.",
	Long: `Summarize the metadata matrix in a single panel.

Reports:
- Total, active and archived record counts
- How many filtered records carry at least one metadata field
- The number of distinct fields observed
- The overall completeness rate (present cells over possible cells)

Examples:
  # Summarize active projects
  metalens summary

  # Summarize everything, archived included
  metalens summary --filter all

  # Machine-readable output for dashboards
  metalens summary --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute summary", err)
		}
	},
}
