// Package core has core logic for normalization, filtering and statistics.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/internal/outwriter"
	"github.com/osshealth/metalens/internal/parquet"
	"github.com/osshealth/metalens/internal/source"
	"github.com/osshealth/metalens/schema"
)

// ExecutorFunc defines the function signature for executing different stats views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// GetSnapshotResults loads the matrix, normalizes it and computes the
// statistics view for the given configuration. It serves both the CLI
// executors and the MCP tool handlers.
func GetSnapshotResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.Snapshot, time.Duration, error) {
	start := time.Now()

	var documents contract.CacheStore
	if mgr != nil {
		documents = mgr.GetDocumentStore()
	}

	sess := NewSession(source.NewLoader(cfg, documents))
	if err := sess.Reload(ctx); err != nil {
		return schema.Snapshot{}, time.Since(start), err
	}
	sess.SetArchiveFilter(cfg.Filter)
	sess.SetQuery(Query{
		Search:       cfg.Search,
		Fields:       cfg.Fields,
		Completeness: cfg.Completeness,
	})

	snap := sess.View()
	return snap, time.Since(start), nil
}

// recordRun persists the stats run when a snapshot store is configured.
// Persistence failures never fail the command itself.
func recordRun(snap schema.Snapshot, cfg *contract.Config, mgr contract.CacheManager) {
	if mgr == nil {
		return
	}
	store := mgr.GetSnapshotStore()
	if store == nil {
		return
	}
	if _, err := store.RecordRun(snap, cfg.Source); err != nil {
		contract.LogWarn("Failed to persist stats run", err)
	}
}

// ExecuteFieldStats computes per-field presence statistics and prints them.
// It serves as the main entry point for the 'stats' mode.
func ExecuteFieldStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	snap, duration, err := GetSnapshotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	recordRun(snap, cfg, mgr)
	return outwriter.NewOutWriter().WriteFieldStats(snap, cfg, duration)
}

// ExecuteSummary computes dataset-wide summary statistics and prints them.
// It serves as the main entry point for the 'summary' mode.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	snap, duration, err := GetSnapshotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	recordRun(snap, cfg, mgr)
	return outwriter.NewOutWriter().WriteSummary(snap, cfg, duration)
}

// ExecuteBuckets computes the completeness histogram and prints it.
func ExecuteBuckets(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	snap, duration, err := GetSnapshotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBuckets(snap, cfg, duration)
}

// ExecutePhases computes the SDLC phase breakdown and prints it.
func ExecutePhases(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	snap, duration, err := GetSnapshotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePhases(snap, cfg, duration)
}

// ExecuteTable renders the per-record field matrix and prints it.
func ExecuteTable(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	snap, duration, err := GetSnapshotResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTable(snap, cfg, duration)
}

// ExecuteScrape collects project metadata from the configured GitHub
// organization and writes the matrix artifacts to the data directory.
func ExecuteScrape(ctx context.Context, cfg *contract.Config) error {
	scraper := source.NewScraper(cfg)
	result, err := scraper.Run(ctx)
	if err != nil {
		return err
	}
	if err := source.WriteOutputs(result, cfg.DataDir); err != nil {
		return err
	}
	fmt.Printf("Scraped %d repositories into %s\n", len(result.Rows), cfg.DataDir)
	return nil
}

// ExecuteSnapshotExport reads persisted runs from the snapshot store and
// writes them to Parquet files in the data directory.
func ExecuteSnapshotExport(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store := mgr.GetSnapshotStore()
	if store == nil {
		return fmt.Errorf("no snapshot store configured: set --snapshot-backend")
	}

	runs, err := store.ListRuns(contract.MaxResultLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return fmt.Errorf("no persisted runs to export")
	}

	var fieldRows []schema.FieldStatRecord
	for _, run := range runs {
		rows, err := store.ListFieldStats(run.RunID)
		if err != nil {
			return fmt.Errorf("failed to list field stats for run %d: %w", run.RunID, err)
		}
		fieldRows = append(fieldRows, rows...)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	runsPath := filepath.Join(cfg.DataDir, "stats_runs.parquet")
	if err := parquet.WriteStatsRunsParquet(parquet.ConvertRunRecords(runs), runsPath); err != nil {
		return err
	}
	fieldsPath := filepath.Join(cfg.DataDir, "field_stats.parquet")
	if err := parquet.WriteFieldPresenceParquet(parquet.ConvertFieldStatRecords(fieldRows), fieldsPath); err != nil {
		return err
	}

	fmt.Printf("Exported %d runs and %d field rows to %s\n", len(runs), len(fieldRows), cfg.DataDir)
	return nil
}

// ExecuteSnapshotList prints persisted stats runs.
func ExecuteSnapshotList(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store := mgr.GetSnapshotStore()
	if store == nil {
		return fmt.Errorf("no snapshot store configured: set --snapshot-backend")
	}
	runs, err := store.ListRuns(cfg.ResultLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return outwriter.NewOutWriter().WriteRuns(runs, cfg)
}
