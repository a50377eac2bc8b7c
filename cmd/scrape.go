package cmd

import (
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/spf13/cobra"
)

// scrapeCmd regenerates the metadata matrix from a GitHub organization.
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape project metadata from a GitHub organization.",
	Long: `Walk every repository in a GitHub organization and rebuild the
metadata matrix from the project pages.

For each repository this reads the index.md YAML front matter plus the
info.md and leaders.md sidebar fragments, extracting classification,
type, license, leaders, audience and social links.

Writes four artifacts to the data directory:
- metadata.json        - full per-project metadata
- metadata_matrix.json - the presence matrix consumed by other commands
- metadata_matrix.csv  - the same matrix as CSV
- metadata_summary.md  - a human-readable field coverage report

Set GITHUB_TOKEN to raise the API rate limit for large organizations.

Examples:
  # Scrape the default organization
  metalens scrape

  # Scrape another org with more workers
  metalens scrape --org MyOrg --workers 16 --data-dir out`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScrape(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot scrape organization", err)
		}
	},
}
