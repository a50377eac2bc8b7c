package cmd

import (
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/spf13/cobra"
)

// phasesCmd computes the SDLC phase breakdown.
var phasesCmd = &cobra.Command{
	Use:   "phases [source]",
	Short: "Show projects grouped by software lifecycle phase.",
	Long: `Classify every project into an SDLC phase using a keyword
heuristic over its descriptive fields (title, type, tags).

Rules are checked in a fixed order and the first match wins, so a
project mentioning both "test" and "design" lands in Verification.
Projects matching nothing fall into the General bucket.

Examples:
  # Phase breakdown over active projects
  metalens phases

  # Export the breakdown as JSON
  metalens phases --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePhases(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute phase breakdown", err)
		}
	},
}
