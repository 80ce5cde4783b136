// Package storage publishes packaged splits to a file store: a local
// directory or an S3-compatible bucket.
package storage

import (
	"context"
	"io"
)

// FileStore reads and writes files addressed by forward-slash paths
// relative to the store root. Implementations are safe for concurrent use.
type FileStore interface {
	// Read opens the named file. A missing file yields an error wrapping
	// os.ErrNotExist. The caller closes the reader.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or truncates the named file. The data is committed
	// when the returned writer is closed.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file; deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}
