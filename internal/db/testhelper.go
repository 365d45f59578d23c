package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTest opens a write/read pool pair on a temp SQLite file, runs all
// pending migrations, and registers cleanup. Tests that don't need the
// read/write split can use writeDB for everything.
func OpenTest(t *testing.T) (writeDB, readDB *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite")

	writeDB, readDB, err := Open(path, 4)
	if err != nil {
		t.Fatalf("open test sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = readDB.Close()
		_ = writeDB.Close()
	})

	if err := RunMigrations(writeDB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return writeDB, readDB
}
