package storage

import (
	"context"
	"time"

	"orgdesk/internal/domain"
)

var _ domain.ReceiptStore = (*NoopReceiptStore)(nil)

// NoopReceiptStore is used when no object storage is configured. Deletes
// succeed silently; presigning reports the missing dependency.
type NoopReceiptStore struct{}

// Delete does nothing.
func (NoopReceiptStore) Delete(context.Context, string) error { return nil }

// PresignGet always fails: there is no backing store to sign against.
func (NoopReceiptStore) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", domain.ErrDependency("receipt storage is not configured")
}
