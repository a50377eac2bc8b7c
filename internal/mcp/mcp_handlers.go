package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// cloneWithOverrides applies the shared source and filter arguments to a
// copy of the base configuration.
func (h *toolHandler) cloneWithOverrides(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("source", ""); s != "" {
		cfg.Source = s
	}
	if f := request.GetString("filter", ""); f != "" {
		switch filter := schema.ArchiveFilter(f); filter {
		case schema.AllRecords, schema.ActiveOnly, schema.ArchivedOnly:
			cfg.Filter = filter
		default:
			return nil, fmt.Errorf("invalid filter %q: must be all, active, or archived", f)
		}
	}
	return cfg, nil
}

func (h *toolHandler) handleGetFieldStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, _, err := core.GetSnapshotResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snap.FieldStats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, _, err := core.GetSnapshotResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snap.Summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCompletenessBuckets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, _, err := core.GetSnapshotResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bucket computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snap.Histogram, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPhaseBreakdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap, _, err := core.GetSnapshotResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("phase computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snap.Phases, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSearchProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.cloneWithOverrides(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg.Search = request.GetString("search", "")
	if f := request.GetString("fields", ""); f != "" {
		cfg.Fields = strings.Split(f, ",")
	}
	if m := request.GetString("completeness", ""); m != "" {
		switch mode := schema.CompletenessMode(m); mode {
		case schema.AnyCompleteness, schema.WithMetadata, schema.WithoutMetadata:
			cfg.Completeness = mode
		default:
			return mcp.NewToolResultError(fmt.Sprintf("invalid completeness mode %q: must be any, with-metadata, or without-metadata", m)), nil
		}
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	snap, _, err := core.GetSnapshotResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	records := snap.Records
	if cfg.ResultLimit > 0 && len(records) > cfg.ResultLimit {
		records = records[:cfg.ResultLimit]
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
