package database

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRows is returned by Row.Scan when a lookup matches nothing,
// regardless of which backend produced the miss.
var ErrNoRows = errors.New("database: no rows in result set")

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

type Row interface {
	Scan(dest ...any) error
}

// DB is the backend-neutral surface the store is written against.
// Queries use ? placeholders; drivers that need a different style
// (Postgres) rewrite them before execution.
type DB interface {
	Connect(dsn string) error
	Close() error
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// Open returns an unconnected driver for the named backend.
func Open(backend string) (DB, error) {
	switch backend {
	case "postgres":
		return &PostgresDriver{}, nil
	case "mysql":
		return &MySQLDriver{}, nil
	case "sqlite":
		return &SQLiteDriver{}, nil
	default:
		return nil, fmt.Errorf("unsupported database backend: %s", backend)
	}
}
