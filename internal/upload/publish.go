package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RemotePath returns remotePath, or the base name of localPath when remotePath is empty.
func RemotePath(localPath, remotePath string) string {
	if remotePath != "" {
		return remotePath
	}
	return filepath.Base(localPath)
}

// PublishSnapshot uploads the snapshot file at localPath.
func PublishSnapshot(ctx context.Context, provider Provider, localPath, remotePath string) error {
	if v, ok := provider.(Verifier); ok {
		if err := v.Verify(ctx); err != nil {
			return err
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s for upload: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	if err := provider.Upload(ctx, f, info.Size(), remotePath); err != nil {
		return fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	return nil
}
