// Package storage implements the receipt file store on S3-compatible
// object storage.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"orgdesk/internal/config"
	"orgdesk/internal/domain"
)

var _ domain.ReceiptStore = (*S3ReceiptStore)(nil)

// S3ReceiptStore stores receipt files as S3 objects. The opaque file
// references deposits carry are object keys within the configured bucket.
type S3ReceiptStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3ReceiptStore creates a receipt store for S3-compatible storage.
// A custom endpoint switches the client to path-style addressing.
func NewS3ReceiptStore(cfg *config.S3Config) *S3ReceiptStore {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.KeyID, cfg.Secret, "",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(fmt.Sprintf("https://%s", cfg.Endpoint))
		opts.UsePathStyle = true
	}

	client := s3.New(opts)
	return &S3ReceiptStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}
}

// Delete removes a receipt object. Deleting an absent key succeeds, which
// suits the best-effort cleanup callers.
func (s *S3ReceiptStore) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("delete receipt object %q: %w", ref, err)
	}
	return nil
}

// PresignGet generates a short-lived download URL for a receipt object.
func (s *S3ReceiptStore) PresignGet(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	result, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(ref),
		},
		s3.WithPresignExpires(ttl),
	)
	if err != nil {
		return "", fmt.Errorf("presign receipt object %q: %w", ref, err)
	}
	return result.URL, nil
}
