// Package gateway is the SQL persistence gateway for user profiles, projects and people.
package gateway

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"golang.org/x/text/cases"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database, applies pragmas for SQLite and runs the embedded migrations.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	var dialect string
	switch driver {
	case DriverPostgres:
		dialect = "postgres"
	case DriverSQLite:
		dialect = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		pragmas := []string{
			"PRAGMA journal_mode = WAL;",
			"PRAGMA synchronous = NORMAL;",
			"PRAGMA foreign_keys = ON;",
			"PRAGMA busy_timeout = 5000;",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to set pragma: %w", err)
			}
		}
	}

	if err := migrate(db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func migrate(db *sqlx.DB, dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// fold applies Unicode case folding. SQL LOWER only folds ASCII on SQLite, so
// searchable text is folded here and stored in the search_text column.
func fold(s string) string {
	return cases.Fold().String(s)
}

// searchText joins the searchable fields of a row into its search_text value.
func searchText(fields ...string) string {
	return fold(strings.Join(fields, "\n"))
}

// containsPattern builds a LIKE pattern matching the folded term anywhere in search_text.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(fold(term)) + "%"
}
