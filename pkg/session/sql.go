package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
)

// SQLStore is a SQL-backed store.
// It works with the PostgreSQL (pgx stdlib) and SQLite (modernc) drivers.
// Requires a table with schema:
//
//	CREATE TABLE hxstate_state (
//	    id VARCHAR(128) PRIMARY KEY,
//	    data BYTEA NOT NULL,
//	    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
//	);
type SQLStore struct {
	db        *sql.DB
	tableName string
	dialect   SQLDialect
	closed    atomic.Bool
}

// SQLDialect represents the SQL dialect for query generation.
type SQLDialect int

const (
	// DialectPostgreSQL uses PostgreSQL syntax ($1, $2 placeholders).
	DialectPostgreSQL SQLDialect = iota
	// DialectSQLite uses SQLite syntax (? placeholders).
	DialectSQLite
)

// String returns the driver-facing name of the dialect.
func (d SQLDialect) String() string {
	switch d {
	case DialectPostgreSQL:
		return "postgres"
	case DialectSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// SQLStoreOption configures SQLStore behavior.
type SQLStoreOption func(*sqlStoreConfig)

type sqlStoreConfig struct {
	tableName string
	dialect   SQLDialect
}

// WithSQLTableName sets the table name.
// Default: "hxstate_state".
func WithSQLTableName(name string) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.tableName = name
	}
}

// WithSQLDialect sets the SQL dialect for query generation.
// Default: DialectPostgreSQL.
func WithSQLDialect(dialect SQLDialect) SQLStoreOption {
	return func(c *sqlStoreConfig) {
		c.dialect = dialect
	}
}

// NewSQLStore creates a new SQL-backed store.
func NewSQLStore(db *sql.DB, opts ...SQLStoreOption) *SQLStore {
	cfg := &sqlStoreConfig{
		tableName: "hxstate_state",
		dialect:   DialectPostgreSQL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &SQLStore{
		db:        db,
		tableName: cfg.tableName,
		dialect:   cfg.dialect,
	}
}

// placeholder returns the placeholder syntax for the dialect.
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == DialectPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) now() string {
	if s.dialect == DialectPostgreSQL {
		return "NOW()"
	}
	return "datetime('now')"
}

// Save upserts data under key.
func (s *SQLStore) Save(ctx context.Context, key string, data []byte) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, s.tableName, s.placeholder(1), s.placeholder(2), s.now())

	_, err := s.db.ExecContext(ctx, query, key, data)
	return storeError(s.dialect.String(), "save", key, err)
}

// Load retrieves data if it exists.
func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed{}
	}

	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = %s`, s.tableName, s.placeholder(1))

	var data []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(s.dialect.String(), "load", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// SaveIfAbsent inserts data unless a row already exists, then reports the
// row that won.
func (s *SQLStore) SaveIfAbsent(ctx context.Context, key string, data []byte) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, ErrStoreClosed{}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, updated_at)
		VALUES (%s, %s, %s)
		ON CONFLICT (id) DO NOTHING
	`, s.tableName, s.placeholder(1), s.placeholder(2), s.now())

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		res, err := s.db.ExecContext(ctx, query, key, data)
		if err != nil {
			return nil, false, storeError(s.dialect.String(), "insert", key, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, false, storeError(s.dialect.String(), "insert", key, err)
		}
		if n == 1 {
			return cloneBytes(data), true, nil
		}
		current, err := s.Load(ctx, key)
		if err != nil {
			return nil, false, err
		}
		if current != nil {
			return current, false, nil
		}
	}
	return nil, false, storeError(s.dialect.String(), "insert", key, errCreateRace)
}

// Delete removes a row.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrStoreClosed{}
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, s.tableName, s.placeholder(1))
	_, err := s.db.ExecContext(ctx, query, key)
	return storeError(s.dialect.String(), "delete", key, err)
}

// Close marks the store as closed.
// Note: This does not close the underlying database connection,
// as it may be shared with other components.
func (s *SQLStore) Close() error {
	s.closed.Store(true)
	return nil
}

// CreateTable creates the state table if it doesn't exist.
func (s *SQLStore) CreateTable(ctx context.Context) error {
	var query string
	switch s.dialect {
	case DialectPostgreSQL:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(128) PRIMARY KEY,
				data BYTEA NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			)
		`, s.tableName)
	case DialectSQLite:
		query = fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				data BLOB NOT NULL,
				updated_at TEXT DEFAULT (datetime('now'))
			)
		`, s.tableName)
	}

	_, err := s.db.ExecContext(ctx, query)
	return storeError(s.dialect.String(), "create table", s.tableName, err)
}

// TableName returns the table this store reads and writes.
func (s *SQLStore) TableName() string {
	return s.tableName
}
