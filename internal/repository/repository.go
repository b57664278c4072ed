package repository

import (
	"context"
	"time"
)

// storageTimeout bounds every database call. A timeout surfaces as
// context.DeadlineExceeded, which callers treat as transient and retryable,
// unlike a definitive not-found.
const storageTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, storageTimeout)
}
