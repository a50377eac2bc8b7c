package cmd

import (
	"fmt"

	"github.com/osshealth/metalens/core"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/internal/iocache"
	"github.com/osshealth/metalens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// snapshotsSetup loads minimal configuration needed for snapshot operations.
// This is used by commands that need snapshot access without full shared setup.
func snapshotsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get snapshot-related config values
	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	// Handle empty backend as SQLite so bare snapshot commands work
	// against the default local store
	var backend schema.CacheBackend
	if backendStr == "" || backendStr == string(schema.NoneBackend) {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.CacheBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by list/export commands)
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	cfg.OutputFile = viper.GetString("output-file")
	cfg.ResultLimit = viper.GetInt("limit")
	if cfg.ResultLimit <= 0 {
		cfg.ResultLimit = contract.DefaultResultLimit
	}
	cfg.Precision = viper.GetInt("precision")
	if cfg.Precision != 1 && cfg.Precision != 2 {
		cfg.Precision = contract.DefaultPrecision
	}
	cfg.DataDir = viper.GetString("data-dir")
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}

	// Initialize stores with the loaded config (no document cache for snapshot commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// snapshotsSetupWrapper wraps snapshotsSetup to provide PreRunE for snapshot commands.
func snapshotsSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotsSetup()
}

// snapshotsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func snapshotsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("snapshot-backend")
	connStr := viper.GetString("snapshot-db-connect")

	var backend schema.CacheBackend
	if backendStr == "" || backendStr == string(schema.NoneBackend) {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.CacheBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetSnapshotDBFilePath()
	}

	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = connStr

	return nil
}

// snapshotsMigrateSetupWrapper wraps snapshotsMigrateSetup to provide PreRunE for migrate command.
func snapshotsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return snapshotsMigrateSetup()
}

// snapshotsCmd focused on stats run management.
//
// Note: Snapshot subcommands use minimal initialization (snapshotsSetup)
// instead of the full sharedSetup used by stats commands. This avoids source
// validation and complex config processing for simple store operations.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage persisted stats runs and exports",
	Long: `Manage persisted stats runs used for trend tracking and reporting.

When a snapshot backend is configured, metalens records every stats and
summary run, storing:
- Run metadata (timestamp, source, archive filter)
- Aggregate counts and the overall completeness rate
- Per-field presence statistics

This enables longitudinal analysis of metadata completeness over time.

Supported backends: SQLite (default), MySQL, PostgreSQL

Subcommands:
  list    - Show persisted runs
  status  - Show snapshot store statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all persisted runs
  migrate - Run database schema migrations

Examples:
  # Record a run, then inspect it
  metalens stats --snapshot-backend sqlite
  metalens snapshots list`,
}

// snapshotsListCmd lists persisted runs.
var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show persisted stats runs, newest first",
	Long: `List the stats runs recorded in the snapshot store.

Each row shows the run ID, when it ran, what source it read, the archive
filter, record counts and the completeness rate at that point in time.

Examples:
  # Show the most recent runs
  metalens snapshots list

  # Show more rows as JSON
  metalens snapshots list --limit 200 --output json`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotList(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Failed to list snapshot runs", err)
		}
	},
}

// snapshotsStatusCmd shows snapshot store status.
var snapshotsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot store statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and connection status
- Total number of persisted runs and field rows
- Last run timestamp

Examples:
  # Check snapshot store status
  metalens snapshots status`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get snapshot status", err)
		}
		iocache.PrintSnapshotStatus(status)
	},
}

// snapshotsClearCmd clears all persisted runs.
var snapshotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted stats runs",
	Long: `Delete all stored runs and per-field rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  metalens snapshots export
  metalens snapshots clear`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearSnapshots(cfg.SnapshotBackend, contract.GetSnapshotDBFilePath(), cfg.SnapshotDBConnect); err != nil {
			contract.LogFatal("Failed to clear snapshot data", err)
		}
		fmt.Println("Snapshot data cleared successfully.")
	},
}

// snapshotsExportCmd exports persisted runs to Parquet files.
var snapshotsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persisted runs to Parquet for BI tools and analytics",
	Long: `Export all persisted runs to Parquet format for use with analytics tools.

Exports two datasets into the data directory:
- stats_runs.parquet  - metadata about each recorded run
- field_stats.parquet - per-field presence rows for every run

Parquet format enables fast querying with DuckDB, Apache Spark and
pandas, and direct import into BI tools.

Examples:
  # Export all data
  metalens snapshots export

  # Use with DuckDB for analysis
  metalens snapshots export --data-dir out
  duckdb -c "SELECT * FROM read_parquet('out/stats_runs.parquet') LIMIT 10"`,
	PreRunE: snapshotsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSnapshotExport(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Failed to export snapshot data", err)
		}
	},
}

// snapshotsMigrateCmd runs database migrations for the snapshot store.
var snapshotsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the snapshot store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  metalens snapshots migrate

  # Migrate to specific version
  metalens snapshots migrate --target-version 1

  # Rollback to initial state
  metalens snapshots migrate --target-version 0`,
	PreRunE: snapshotsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateSnapshots(cfg.SnapshotBackend, cfg.SnapshotDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
