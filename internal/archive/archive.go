// Package archive stores raw statement uploads in a GCS bucket so failed
// parses can be replayed later.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// GCS uploads objects to a single bucket. It assumes Application Default
// Credentials are configured.
type GCS struct {
	bucket string
}

// NewGCS creates an archiver for the given bucket.
func NewGCS(bucket string) *GCS {
	return &GCS{bucket: bucket}
}

// Upload writes data to the bucket under objectName.
func (g *GCS) Upload(ctx context.Context, objectName string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to GCS writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload: %w", err)
	}
	return nil
}

// Fetch downloads an archived object.
func (g *GCS) Fetch(ctx context.Context, objectName string) ([]byte, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(g.bucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", g.bucket, objectName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read bytes: %w", err)
	}
	return data, nil
}

// Disabled is the no-op archiver used when no bucket is configured.
type Disabled struct{}

// Upload drops the data.
func (Disabled) Upload(ctx context.Context, objectName string, data []byte) error {
	return nil
}
