// Package coveragetest builds coverage.py data files for tests.
package coveragetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"snajper/internal/domain"
)

var schema = []string{
	`CREATE TABLE file (id INTEGER PRIMARY KEY, path TEXT, UNIQUE (path))`,
	`CREATE TABLE context (id INTEGER PRIMARY KEY, context TEXT, UNIQUE (context))`,
	`CREATE TABLE line_bits (file_id INTEGER, context_id INTEGER, numbits BLOB, UNIQUE (file_id, context_id))`,
}

// WriteStore creates a data file in a temp dir holding the given records and
// returns its path. Records with an empty TestID are stored like coverage.py
// stores lines run outside any test.
func WriteStore(t testing.TB, records []domain.CoverageRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".coverage")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	for _, rec := range records {
		if _, err := db.Exec(`INSERT OR IGNORE INTO file (path) VALUES (?)`, rec.SourcePath); err != nil {
			t.Fatalf("insert file: %v", err)
		}
		if _, err := db.Exec(`INSERT OR IGNORE INTO context (context) VALUES (?)`, rec.TestID); err != nil {
			t.Fatalf("insert context: %v", err)
		}
		_, err := db.Exec(`
			INSERT OR IGNORE INTO line_bits (file_id, context_id, numbits)
			SELECT f.id, c.id, x'01' FROM file f, context c WHERE f.path = ? AND c.context = ?`,
			rec.SourcePath, rec.TestID)
		if err != nil {
			t.Fatalf("insert line_bits: %v", err)
		}
	}
	return path
}
