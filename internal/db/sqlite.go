// Package db provides SQLite connectivity helpers and migration support
// for the membership store.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// Hardened SQLite settings: WAL journal, 5s busy timeout, NORMAL sync.
func dsn(path string, write bool) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	if write {
		params.Set("_txlock", "immediate")
	}
	return path + "?" + params.Encode()
}

// openPool opens one pool. Write pools are capped at a single connection so
// writes serialize in Go instead of failing with SQLITE_BUSY.
func openPool(path string, write bool, maxOpen int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite3", dsn(path, write))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if write {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = 4
	}
	pool.SetMaxOpenConns(maxOpen)
	pool.SetMaxIdleConns(maxOpen)
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return pool, nil
}

// Open opens a write pool (single connection, immediate transactions) and a
// read pool for the same SQLite file. readMaxOpen of 0 defaults to 4.
func Open(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = openPool(path, true, 0)
	if err != nil {
		return nil, nil, err
	}
	readDB, err = openPool(path, false, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}
	return writeDB, readDB, nil
}
