package database

import (
	"context"
	"database/sql"
	"errors"
)

// sqlDB adapts a database/sql connection to the DB interface. MySQL and
// SQLite both speak ? placeholders natively, so no rebinding happens here.
type sqlDB struct {
	db *sql.DB
}

func (s *sqlDB) Close() error {
	return s.db.Close()
}

func (s *sqlDB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *sqlDB) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (s *sqlDB) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{s.db.QueryRowContext(ctx, query, args...)}
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRows) Err() error             { return r.rows.Err() }
func (r sqlRows) Close()                 { r.rows.Close() }

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoRows
		}
		return err
	}
	return nil
}
