package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// ConfigureConnection sizes the pool and applies database-specific session settings
	ConfigureConnection(db *sql.DB, config DialectConfig) error

	// MigrationsSubdir returns the embedded migrations subdirectory (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// BoolValue returns the SQL representation of a boolean value
	BoolValue(b bool) string

	// InsertProfileIfMissing returns the statement that inserts a learner profile
	// or leaves an existing row untouched
	InsertProfileIfMissing() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string

	// Pool sizing; zero values fall back to defaultPool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

var defaultPool = DialectConfig{MaxOpenConns: 25, MaxIdleConns: 5, ConnMaxLifetime: 5 * time.Minute}

// applyPool sizes db from config, filling unset fields from defaultPool
func applyPool(db *sql.DB, config DialectConfig) {
	open := lo.Ternary(config.MaxOpenConns > 0, config.MaxOpenConns, defaultPool.MaxOpenConns)
	idle := lo.Ternary(config.MaxIdleConns > 0, config.MaxIdleConns, defaultPool.MaxIdleConns)
	lifetime := lo.Ternary(config.ConnMaxLifetime > 0, config.ConnMaxLifetime, defaultPool.ConnMaxLifetime)

	db.SetMaxOpenConns(open)
	db.SetMaxIdleConns(min(idle, open))
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(time.Minute)
}

// placeholderRegexp matches ? placeholders not inside quotes
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// profileInsertColumns is shared by every dialect's InsertProfileIfMissing
const profileInsertColumns = `(learner_id, username, level, seen_words, failed_words, failed_word_types,
	problem_letters, difficulty_modifier, hint_credits, wins_since_last_hint, placement_done,
	version, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`
