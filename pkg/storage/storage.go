// Package storage keeps uploaded package blobs on the local filesystem,
// addressed by slash-separated relative keys.
package storage

import (
	"context"
	"io"

	"github.com/JaimeStill/elp-audit/pkg/lifecycle"
)

// System stores and retrieves blobs by key.
type System interface {
	// Store writes data at key atomically, replacing any existing blob.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the blob at key or ErrNotFound.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Open streams the blob at key. The caller closes the reader.
	Open(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// Delete removes the blob at key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Validate reports whether key exists.
	Validate(ctx context.Context, key string) (bool, error)

	// Start creates the base directory during startup.
	Start(lc *lifecycle.Coordinator) error
}
