// Package coverage reads the "who-tests-what" contexts recorded by coverage.py.
//
// The store holds three tables: file(id, path), context(id, context) and
// line_bits(file_id, context_id, numbits). A row in line_bits means that the
// test named by context executed at least one line of file. The package only
// ever reads; every call opens the store, runs one query and closes it again.
package coverage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"snajper/internal/config"
	"snajper/internal/domain"
)

const recordsQuery = `
SELECT f.path, c.context
FROM file f
JOIN line_bits l ON f.id = l.file_id
JOIN context c ON l.context_id = c.id
WHERE c.context <> ''`

// Store answers which tests covered a file
type Store interface {
	Lookup(ctx context.Context, absPath string) ([]string, error)
	Records(ctx context.Context) ([]domain.CoverageRecord, error)
	Files(ctx context.Context) ([]string, error)
}

// Index is a Store backed by a database/sql driver
type Index struct {
	driver string
	dsn    string
}

// NewIndex creates an Index from the configured driver and data source
func NewIndex(cfg *config.Config) *Index {
	return &Index{driver: cfg.StoreDriver, dsn: cfg.GetStoreDSN()}
}

// NewSQLiteIndex creates an Index over a coverage.py data file
func NewSQLiteIndex(path string) *Index {
	return &Index{driver: "sqlite", dsn: path}
}

// Lookup returns the test ids of every record whose path equals absPath.
// Order is whatever the store yields and duplicates are kept.
func (ix *Index) Lookup(ctx context.Context, absPath string) ([]string, error) {
	db, err := ix.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, recordsQuery+" AND f.path = ?", absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: query contexts: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	tests := []string{}
	for rows.Next() {
		var path, test string
		if err := rows.Scan(&path, &test); err != nil {
			return nil, fmt.Errorf("%w: scan context: %w", domain.ErrStoreUnavailable, err)
		}
		tests = append(tests, test)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read contexts: %w", domain.ErrStoreUnavailable, err)
	}
	return tests, nil
}

// Records returns every record with a non-empty test id, ordered by path and
// then test id so callers see the same table on every call
func (ix *Index) Records(ctx context.Context) ([]domain.CoverageRecord, error) {
	db, err := ix.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, recordsQuery+" ORDER BY f.path, c.context")
	if err != nil {
		return nil, fmt.Errorf("%w: query records: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []domain.CoverageRecord
	for rows.Next() {
		var rec domain.CoverageRecord
		if err := rows.Scan(&rec.SourcePath, &rec.TestID); err != nil {
			return nil, fmt.Errorf("%w: scan record: %w", domain.ErrStoreUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read records: %w", domain.ErrStoreUnavailable, err)
	}
	return records, nil
}

// Files returns the distinct measured file paths in sorted order
func (ix *Index) Files(ctx context.Context) ([]string, error) {
	db, err := ix.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT DISTINCT path FROM file ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("%w: query files: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("%w: scan file: %w", domain.ErrStoreUnavailable, err)
		}
		files = append(files, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read files: %w", domain.ErrStoreUnavailable, err)
	}
	return files, nil
}

// open connects to the store. A missing sqlite file is reported instead of
// being created empty by the driver.
func (ix *Index) open() (*sql.DB, error) {
	dsn := ix.dsn
	switch ix.driver {
	case "sqlite":
		info, err := os.Stat(ix.dsn)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s does not exist", domain.ErrStoreUnavailable, ix.dsn)
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", domain.ErrStoreUnavailable, ix.dsn)
		}
		dsn = "file:" + (&url.URL{Path: ix.dsn}).EscapedPath() + "?mode=ro"
	case "mysql":
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", domain.ErrStoreUnavailable, ix.driver)
	}

	db, err := sql.Open(ix.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrStoreUnavailable, ix.driver, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
