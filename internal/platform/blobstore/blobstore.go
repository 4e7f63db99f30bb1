package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUploadFailed is returned when an upload exhausts its retry budget.
// The last underlying error is attached via wrapping.
var ErrUploadFailed = errors.New("storage upload failed")

// Store is the interface the pipeline uses to persist artifacts.
type Store interface {
	// Upload writes data under bucket/key with the given content type and
	// returns the object's public URL. Uploads are idempotent: re-uploading
	// an existing key replaces its content.
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)

	// PublicURL derives the public URL for bucket/key. It is a pure string
	// operation and never fails for a well-formed key.
	PublicURL(bucket, key string) string
}

// uploadAttempts and uploadRetryDelay bound the retry loop around a
// single object upload.
const (
	uploadAttempts   = 3
	uploadRetryDelay = 2 * time.Second
)

// uploadWithRetry runs fn up to attempts times, sleeping delay between
// attempts. Exhaustion surfaces ErrUploadFailed wrapping the last error.
func uploadWithRetry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if i < attempts-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrUploadFailed, attempts, lastErr)
}

// joinURL builds base/elem... without doubling slashes.
func joinURL(base string, elems ...string) string {
	parts := make([]string, 0, len(elems)+1)
	parts = append(parts, strings.TrimRight(base, "/"))
	for _, e := range elems {
		parts = append(parts, strings.Trim(e, "/"))
	}
	return strings.Join(parts, "/")
}
