package contract

import (
	"testing"
	"time"

	"github.com/osshealth/metalens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Filter:    "active",
		Precision: 1,
	}
}

// TestProcessAndValidate tests config parsing across all sections.
func TestProcessAndValidate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validInput()))
		assert.Equal(t, DefaultSource, cfg.Source)
		assert.Equal(t, schema.ActiveOnly, cfg.Filter)
		assert.Equal(t, schema.AnyCompleteness, cfg.Completeness)
		assert.Equal(t, DefaultResultLimit, cfg.ResultLimit)
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
		assert.Equal(t, schema.NoneBackend, cfg.SnapshotBackend)
		assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
		assert.Equal(t, "data", cfg.DataDir)
		assert.True(t, cfg.UseEmojis)
		assert.True(t, cfg.UseColors)
	})

	t.Run("url source accepted", func(t *testing.T) {
		input := validInput()
		input.Source = "https://owasp.org/matrix.json"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, input.Source, cfg.Source)
	})

	t.Run("non-http scheme rejected", func(t *testing.T) {
		input := validInput()
		input.Source = "ftp://example.org/matrix.json"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("invalid filter rejected", func(t *testing.T) {
		input := validInput()
		input.Filter = "retired"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("filter is case-insensitive", func(t *testing.T) {
		input := validInput()
		input.Filter = "ARCHIVED"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.ArchivedOnly, cfg.Filter)
	})

	t.Run("invalid completeness rejected", func(t *testing.T) {
		input := validInput()
		input.Completeness = "half"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("invalid output rejected", func(t *testing.T) {
		input := validInput()
		input.Output = "xml"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("limit bounds", func(t *testing.T) {
		input := validInput()
		input.Limit = MaxResultLimit + 1
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.Limit = -1
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.Limit = 10
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 10, cfg.ResultLimit)
	})

	t.Run("precision must be 1 or 2", func(t *testing.T) {
		input := validInput()
		input.Precision = 3
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.Precision = 2
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 2, cfg.Precision)
	})

	t.Run("negative width rejected", func(t *testing.T) {
		input := validInput()
		input.Width = -5
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("cache ttl parsing", func(t *testing.T) {
		input := validInput()
		input.CacheTTL = "30m"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 30*time.Minute, cfg.CacheTTL)

		input.CacheTTL = "soon"
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.CacheTTL = "-1h"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("mysql without connection string rejected", func(t *testing.T) {
		input := validInput()
		input.CacheBackend = "mysql"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("fields are split and trimmed", func(t *testing.T) {
		input := validInput()
		input.Fields = " license , level ,,tags"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, []string{"license", "level", "tags"}, cfg.Fields)
	})

	t.Run("emoji and color toggles", func(t *testing.T) {
		input := validInput()
		input.Emoji = "no"
		input.Color = "off"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.False(t, cfg.UseEmojis)
		assert.False(t, cfg.UseColors)
	})

	t.Run("scrape defaults", func(t *testing.T) {
		input := validInput()
		input.Org = " OWASP "
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, "OWASP", cfg.Org)
		assert.Equal(t, DefaultWorkers, cfg.Workers)
	})
}

// TestValidateDatabaseConnectionString tests backend-specific rules.
func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=db"))
	assert.Error(t, ValidateDatabaseConnectionString("oracle", "x"))
}

// TestConfigClone tests deep copy semantics.
func TestConfigClone(t *testing.T) {
	cfg := &Config{Source: "data/m.json", Fields: []string{"license"}}
	clone := cfg.Clone()

	clone.Source = "other.json"
	clone.Fields[0] = "level"

	assert.Equal(t, "data/m.json", cfg.Source)
	assert.Equal(t, []string{"license"}, cfg.Fields)
}

// TestProcessProfilingConfig tests the profiling flag handling.
func TestProcessProfilingConfig(t *testing.T) {
	var profile ProfileConfig
	require.NoError(t, ProcessProfilingConfig(&profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(&profile, "perf"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "perf", profile.Prefix)
}

// TestSplitFields tests comma-separated field parsing.
func TestSplitFields(t *testing.T) {
	assert.Nil(t, splitFields(""))
	assert.Nil(t, splitFields("  "))
	assert.Equal(t, []string{"a"}, splitFields("a"))
	assert.Equal(t, []string{"a", "b"}, splitFields("a, b,"))
}

// TestParseYesNo tests toggle parsing with defaults.
func TestParseYesNo(t *testing.T) {
	assert.True(t, parseYesNo("yes", false))
	assert.True(t, parseYesNo("ON", false))
	assert.False(t, parseYesNo("no", true))
	assert.False(t, parseYesNo("0", true))
	assert.True(t, parseYesNo("", true))
	assert.False(t, parseYesNo("", false))
	assert.True(t, parseYesNo("maybe", true))
}
