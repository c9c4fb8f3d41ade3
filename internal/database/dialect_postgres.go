package database

import (
	"database/sql"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

// applicationName tags server sessions so pg_stat_activity shows who is connected
const applicationName = "dazhangman"

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// DSN adds application_name unless the caller set one. lib/pq accepts both
// postgres:// URLs and key=value connection strings.
func (d *PostgresDialect) DSN(config DialectConfig) string {
	dsn := strings.TrimSpace(config.URL)
	if dsn == "" || strings.Contains(dsn, "application_name=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if strings.Contains(dsn, "?") {
			return dsn + "&application_name=" + applicationName
		}
		return dsn + "?application_name=" + applicationName
	}
	return dsn + " application_name=" + applicationName
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB, config DialectConfig) error {
	applyPool(db, config)
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) BoolValue(b bool) string {
	return strings.ToUpper(strconv.FormatBool(b))
}

// InsertProfileIfMissing relies on the learner_id primary key; a concurrent first
// contact affects zero rows and the caller re-reads.
func (d *PostgresDialect) InsertProfileIfMissing() string {
	return "INSERT INTO learner_profiles " + profileInsertColumns + " ON CONFLICT (learner_id) DO NOTHING"
}
