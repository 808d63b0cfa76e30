package helpers

import (
	"context"
	"fmt"
	"io"

	"github.com/zinc-sig/rere/cmd/config"
	"github.com/zinc-sig/rere/internal/configsource"
	"github.com/zinc-sig/rere/internal/upload"
)

// UploadEnvPrefix names the environment variables read for upload settings
const UploadEnvPrefix = "RERE_UPLOAD_CONFIG"

// BuildUploadConfig builds upload configuration from all sources
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	uploadConf, err := configsource.BuildMap(UploadEnvPrefix, cfg.Config, cfg.ConfigKV, cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	return uploadConf, nil
}

// SetupUploadProvider creates and configures an upload provider. It returns
// a nil provider when none was requested.
func SetupUploadProvider(cfg *config.UploadConfig) (upload.Provider, map[string]any, error) {
	if cfg.Provider == "" {
		return nil, nil, nil
	}

	uploadConf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, uploadConf, nil
}

// PublishSnapshot uploads the snapshot file and returns the remote path used
func PublishSnapshot(ctx context.Context, provider upload.Provider, snapshotPath, remotePath string, verbose bool, log io.Writer) (string, error) {
	remote := upload.RemotePath(snapshotPath, remotePath)
	if err := upload.PublishSnapshot(ctx, provider, snapshotPath, remote); err != nil {
		return "", err
	}
	if verbose {
		fmt.Fprintf(log, "[UPLOAD] %s -> %s:%s\n", snapshotPath, provider.Name(), remote)
	}
	return remote, nil
}

// PrintUploadInfo prints upload configuration in verbose mode
func PrintUploadInfo(log io.Writer, provider upload.Provider, config map[string]any) {
	fmt.Fprintf(log, "[UPLOAD] Provider: %s\n", provider.Name())
	for _, key := range []string{"endpoint", "bucket", "prefix"} {
		if value, ok := config[key]; ok && value != "" {
			fmt.Fprintf(log, "[UPLOAD] %s: %v\n", key, value)
		}
	}
}
