package cmd

import (
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/spf13/cobra"
)

// bucketsCmd computes the completeness histogram.
var bucketsCmd = &cobra.Command{
	Use:   "buckets [source]",
	Short: "Show how projects distribute across completeness buckets.",
	Long: `Bucket every project by the share of metadata fields it fills in.

The six buckets are 0%, 1-25%, 26-50%, 51-75%, 76-99% and 100%.
A project only lands in 100% when every observed field is present,
and only in 0% when none are.

Use this to:
- See whether completeness is bimodal (well-kept vs abandoned)
- Measure the long tail of barely-documented projects
- Set realistic targets for metadata campaigns

Examples:
  # Histogram over active projects
  metalens buckets

  # Histogram over archived projects only
  metalens buckets --filter archived`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuckets(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute completeness buckets", err)
		}
	},
}
