package helpers

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zinc-sig/rere/cmd/config"
	"github.com/zinc-sig/rere/internal/replay"
	"github.com/zinc-sig/rere/internal/runner"
)

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}

	return timeout, nil
}

// NewCaptureFunc returns a capture function configured by the common flags.
// Verbose execution details go to log.
func NewCaptureFunc(flags *config.CommonFlags, log io.Writer) replay.CaptureFunc {
	return func(ctx context.Context, shell string) (*runner.Result, error) {
		return runner.Capture(ctx, &runner.Config{
			Shell:   flags.Shell,
			Command: shell,
			Timeout: flags.Timeout,
			Verbose: flags.Verbose,
			Log:     log,
		})
	}
}
