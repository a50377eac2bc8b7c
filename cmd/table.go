package cmd

import (
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/spf13/cobra"
)

// tableCmd renders the per-record field matrix.
var tableCmd = &cobra.Command{
	Use:   "table [source]",
	Short: "Show the per-project field matrix with search and filtering.",
	Long: `Render the normalized matrix: one row per project, one column
per metadata field, with glyphs marking presence.

Rows can be narrowed three ways, and all constraints must hold:
- --search matches a substring of the repo name
- --fields keeps only projects where every named field is present
- --completeness keeps projects with or without any metadata at all

Examples:
  # Full matrix for active projects
  metalens table

  # Projects whose name mentions "juice" and that declare a license
  metalens table --search juice --fields license

  # Projects with no metadata at all (documentation debt list)
  metalens table --completeness without-metadata

  # Select specific columns
  metalens table --fields license,leaders,website`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTable(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render table", err)
		}
	},
}
