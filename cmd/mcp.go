package cmd

import (
	"github.com/osshealth/metalens/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Metalens MCP server",
	Long:  `Launch an MCP server that allows AI agents to query metadata completeness via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// The shared setup prints nothing, so stdio stays clean for the
		// protocol stream.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
