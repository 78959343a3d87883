package session

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

const (
	defaultPostgresDSN = "postgres://localhost/hxstate?sslmode=disable"
	defaultSQLitePath  = "hxstate.db"
)

var sqlOpen = sql.Open

// OpenSQL opens and pings a database for the dialect, falling back to a
// local default DSN when dsn is empty.
func OpenSQL(ctx context.Context, dialect SQLDialect, dsn string) (*sql.DB, error) {
	var driver string
	switch dialect {
	case DialectPostgreSQL:
		driver = "pgx"
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	case DialectSQLite:
		driver = "sqlite"
		if dsn == "" {
			dsn = defaultSQLitePath
		}
	default:
		return nil, fmt.Errorf("session: unsupported sql dialect %d", dialect)
	}

	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// A single connection serializes writers and avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, nil
}
