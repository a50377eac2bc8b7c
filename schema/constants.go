package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ArchiveFilter selects which records participate in statistics.
	ArchiveFilter string

	// CompletenessMode constrains table queries by metadata presence.
	CompletenessMode string

	// ValueKind discriminates the canonical value union.
	ValueKind int

	// Phase is an SDLC phase assigned by the heuristic categorizer.
	Phase string

	// CacheBackend represents the database backend for persistence.
	CacheBackend string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All archive filters supported.
const (
	AllRecords   ArchiveFilter = "all"
	ActiveOnly   ArchiveFilter = "active" // default
	ArchivedOnly ArchiveFilter = "archived"
)

// All completeness modes supported.
const (
	AnyCompleteness CompletenessMode = "any" // default
	WithMetadata    CompletenessMode = "with-metadata"
	WithoutMetadata CompletenessMode = "without-metadata"
)

// Canonical value kinds. AbsentValue is the zero value so that a
// missing map lookup reads as absent.
const (
	AbsentValue ValueKind = iota
	BooleanValue
	TextValue
)

// All cache backends supported.
const (
	SQLiteBackend     CacheBackend = "sqlite" // default
	MySQLBackend      CacheBackend = "mysql"
	PostgreSQLBackend CacheBackend = "postgresql"
	NoneBackend       CacheBackend = "none"
)

// Reserved field names. These identify a record or carry its archive
// status and are excluded from completeness statistics.
const (
	RepoField     = "repo"
	ArchivedField = "archived"
	SourceField   = "source_file"
)

// Glyphs used by the upstream matrix generator to mark presence.
const (
	CheckGlyph = "✔"
	CrossGlyph = "✘"
)

// AllFieldsSentinel selects every field in a table query.
const AllFieldsSentinel = "all"

// BucketLabels are the completeness histogram buckets, in display order.
// Boundaries are inclusive on the upper end except the final bucket,
// which requires exactly 100%.
var BucketLabels = []string{"0%", "1-25%", "26-50%", "51-75%", "76-99%", "100%"}
