package replay

import (
	"context"
	"fmt"

	"github.com/zinc-sig/rere/internal/snapshot"
)

type Recorder struct {
	Capture  CaptureFunc
	Reporter *Reporter
}

// Run captures every shell in order and also returns the milliseconds
// spent in captures.
func (r *Recorder) Run(ctx context.Context, shells []string) (snapshots []snapshot.Snapshot, executionTime int64, err error) {
	snapshots = make([]snapshot.Snapshot, 0, len(shells))
	for _, shell := range shells {
		r.Reporter.Capturing(shell)

		result, err := r.Capture(ctx, shell)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to capture %q: %w", shell, err)
		}
		snapshots = append(snapshots, result.Snapshot)
		executionTime += result.ExecutionTime
	}
	return snapshots, executionTime, nil
}
