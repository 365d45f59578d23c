// Package repository implements the domain repository interfaces on SQLite.
// One row is one document; list-valued fields (audit log, receipt files)
// are stored as JSON columns so they travel with the owning row and share
// its per-row atomicity.
package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"orgdesk/internal/domain"
)

func mapDBError(err error, what string) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return domain.ErrNotFound("%s not found", what)
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrValidation("%s already exists", what)
	}
	return err
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func intPtr(nn sql.NullInt64) *int {
	if !nn.Valid {
		return nil
	}
	n := int(nn.Int64)
	return &n
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(b), nil
}

func unmarshalJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}
