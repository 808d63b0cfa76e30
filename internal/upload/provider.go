package upload

import (
	"context"
	"io"
)

// Provider publishes snapshot files to remote storage
type Provider interface {
	// Upload stores size bytes from reader at remotePath. size may be -1 when unknown.
	Upload(ctx context.Context, reader io.Reader, size int64, remotePath string) error

	// Configure sets up the provider with the given configuration
	Configure(config map[string]any) error

	// Name returns the provider name
	Name() string
}

// Verifier is implemented by providers that can check their destination before uploading
type Verifier interface {
	Verify(ctx context.Context) error
}
