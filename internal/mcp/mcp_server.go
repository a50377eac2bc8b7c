// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/osshealth/metalens/internal/contract"
)

// NewMCPServer initializes and configures the Metalens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Metalens Completeness Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_field_stats ---
	s.AddTool(mcp.NewTool("get_field_stats",
		mcp.WithDescription("Compute per-field presence statistics over the project metadata matrix."),
		mcp.WithString("source", mcp.Description("Path or URL of the metadata matrix JSON (defaults to the configured source).")),
		mcp.WithString("filter", mcp.Description("Archive filter (all, active, archived). Defaults to 'active'."), mcp.Enum("all", "active", "archived")),
	), h.handleGetFieldStats)

	// --- 2. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Compute dataset-wide summary statistics: record counts, field counts and the overall completeness rate."),
		mcp.WithString("source", mcp.Description("Path or URL of the metadata matrix JSON.")),
		mcp.WithString("filter", mcp.Description("Archive filter (all, active, archived)."), mcp.Enum("all", "active", "archived")),
	), h.handleGetSummary)

	// --- 3. Tool: get_completeness_buckets ---
	s.AddTool(mcp.NewTool("get_completeness_buckets",
		mcp.WithDescription("Bucket records by metadata completeness into a six-bucket histogram."),
		mcp.WithString("source", mcp.Description("Path or URL of the metadata matrix JSON.")),
		mcp.WithString("filter", mcp.Description("Archive filter (all, active, archived)."), mcp.Enum("all", "active", "archived")),
	), h.handleGetCompletenessBuckets)

	// --- 4. Tool: get_phase_breakdown ---
	s.AddTool(mcp.NewTool("get_phase_breakdown",
		mcp.WithDescription("Classify records into SDLC phases using the keyword heuristic and count each phase."),
		mcp.WithString("source", mcp.Description("Path or URL of the metadata matrix JSON.")),
		mcp.WithString("filter", mcp.Description("Archive filter (all, active, archived)."), mcp.Enum("all", "active", "archived")),
	), h.handleGetPhaseBreakdown)

	// --- 5. Tool: search_projects ---
	s.AddTool(mcp.NewTool("search_projects",
		mcp.WithDescription("Search project records by repo name substring, field presence and completeness."),
		mcp.WithString("search", mcp.Description("Substring match against repo names.")),
		mcp.WithString("fields", mcp.Description("Comma-separated field names, at least one of which must be present ('all' selects every field).")),
		mcp.WithString("completeness", mcp.Description("Completeness constraint (any, with-metadata, without-metadata)."), mcp.Enum("any", "with-metadata", "without-metadata")),
		mcp.WithString("filter", mcp.Description("Archive filter (all, active, archived)."), mcp.Enum("all", "active", "archived")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleSearchProjects)

	return s
}

// StartMCPServer starts the Metalens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
