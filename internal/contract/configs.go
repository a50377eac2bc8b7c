package contract

import (
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/osshealth/metalens/schema"
)

// Default values for configuration.
const (
	DefaultSource      = "data/metadata_matrix.json"
	DefaultResultLimit = 50
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultCacheTTL    = 24 * time.Hour
)

// DefaultWorkers is the default number of concurrent scrape workers.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Config holds the validated runtime configuration.
type Config struct {
	Source       string // Path or URL of the metadata matrix JSON
	Filter       schema.ArchiveFilter
	Search       string   // Substring match against repo names
	Fields       []string // Field selection for table queries
	Completeness schema.CompletenessMode
	ResultLimit  int // Maximum number of rows to show
	Precision    int // Decimal precision for percentages (1 or 2)
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.CacheBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	SnapshotBackend   schema.CacheBackend
	SnapshotDBConnect string // Please use env var as this is plaintext

	// Scrape settings
	Org     string
	Workers int
	DataDir string

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env,
// config file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	Source            string `mapstructure:"source"`
	Filter            string `mapstructure:"filter"`
	Search            string `mapstructure:"search"`
	Fields            string `mapstructure:"fields"`
	Completeness      string `mapstructure:"completeness"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`
	Org               string `mapstructure:"org"`
	Workers           int    `mapstructure:"workers"`
	DataDir           string `mapstructure:"data-dir"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Fields != nil {
		clone.Fields = make([]string, len(c.Fields))
		copy(clone.Fields, c.Fields)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input); err != nil {
		return err
	}
	if err := processOutput(cfg, input); err != nil {
		return err
	}
	if err := processPersistence(cfg, input); err != nil {
		return err
	}
	processScrape(cfg, input)

	cfg.UseEmojis = parseYesNo(input.Emoji, true)
	cfg.UseColors = parseYesNo(input.Color, true)
	return nil
}

func processSource(cfg *Config, input *ConfigRawInput) error {
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = DefaultSource
	}
	if strings.Contains(source, "://") {
		u, err := url.Parse(source)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid source URL %q: only http and https are supported", source)
		}
	}
	cfg.Source = source
	return nil
}

func processFilters(cfg *Config, input *ConfigRawInput) error {
	switch f := schema.ArchiveFilter(strings.ToLower(input.Filter)); f {
	case "", schema.ActiveOnly:
		cfg.Filter = schema.ActiveOnly
	case schema.AllRecords, schema.ArchivedOnly:
		cfg.Filter = f
	default:
		return fmt.Errorf("invalid filter %q: must be all, active, or archived", input.Filter)
	}

	switch m := schema.CompletenessMode(strings.ToLower(input.Completeness)); m {
	case "", schema.AnyCompleteness:
		cfg.Completeness = schema.AnyCompleteness
	case schema.WithMetadata, schema.WithoutMetadata:
		cfg.Completeness = m
	default:
		return fmt.Errorf("invalid completeness mode %q: must be any, with-metadata, or without-metadata", input.Completeness)
	}

	cfg.Search = strings.TrimSpace(input.Search)
	cfg.Fields = splitFields(input.Fields)
	return nil
}

func processOutput(cfg *Config, input *ConfigRawInput) error {
	switch o := schema.OutputMode(strings.ToLower(input.Output)); o {
	case "", schema.TextOut:
		cfg.Output = schema.TextOut
	case schema.CSVOut, schema.JSONOut, schema.ParquetOut:
		cfg.Output = o
	default:
		return fmt.Errorf("invalid output mode %q: must be text, csv, json, or parquet", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d", MaxResultLimit)
	}
	cfg.ResultLimit = input.Limit
	if cfg.ResultLimit == 0 {
		cfg.ResultLimit = DefaultResultLimit
	}

	if input.Precision != 1 && input.Precision != 2 {
		return fmt.Errorf("precision must be 1 or 2")
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative")
	}
	cfg.Width = input.Width
	return nil
}

func processPersistence(cfg *Config, input *ConfigRawInput) error {
	backend := schema.CacheBackend(strings.ToLower(input.CacheBackend))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if err := ValidateDatabaseConnectionString(backend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheBackend = backend
	cfg.CacheDBConnect = input.CacheDBConnect

	snapBackend := schema.CacheBackend(strings.ToLower(input.SnapshotBackend))
	if snapBackend == "" {
		snapBackend = schema.NoneBackend
	}
	if err := ValidateDatabaseConnectionString(snapBackend, input.SnapshotDBConnect); err != nil {
		return err
	}
	cfg.SnapshotBackend = snapBackend
	cfg.SnapshotDBConnect = input.SnapshotDBConnect

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl %q: %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative")
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

func processScrape(cfg *Config, input *ConfigRawInput) {
	cfg.Org = strings.TrimSpace(input.Org)
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	cfg.DataDir = input.DataDir
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for backends that require one.
func ValidateDatabaseConnectionString(backend schema.CacheBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil // SQLite falls back to the default file path
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("mysql backend requires a connection string: user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("postgresql backend requires a connection string: host=... port=... user=... dbname=...")
		}
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// splitFields parses a comma-separated field list, dropping empties.
func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// parseYesNo interprets yes/no style toggles, defaulting on empty.
func parseYesNo(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return def
	}
}
