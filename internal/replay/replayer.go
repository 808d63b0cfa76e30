package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/zinc-sig/rere/internal/runner"
	"github.com/zinc-sig/rere/internal/snapshot"
)

// ErrReplayFailed is returned by callers once a failed outcome has been reported.
var ErrReplayFailed = errors.New("replay failed")

type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// FailureKind says which check stopped the replay.
type FailureKind string

const (
	FailureCount FailureKind = "count"
	FailureShell FailureKind = "shell"
	FailureDrift FailureKind = "drift"
)

// CaptureFunc runs one shell command.
type CaptureFunc func(ctx context.Context, shell string) (*runner.Result, error)

// Outcome is the result of a replay. Index is -1 unless a specific command failed.
type Outcome struct {
	Status        Status
	Kind          FailureKind
	Index         int
	Expected      string
	Actual        string
	Mismatches    []Mismatch
	Replayed      int
	ExecutionTime int64 // milliseconds spent in captures
}

func (o *Outcome) Passed() bool {
	return o.Status == StatusPassed
}

type Replayer struct {
	Capture  CaptureFunc
	Reporter *Reporter
}

// Run checks shells against the recorded snapshots and stops at the first
// failing command. Structural problems are detected before anything runs
// at that index; an error is returned only when a command cannot be captured.
func (r *Replayer) Run(ctx context.Context, shells []string, snapshots []snapshot.Snapshot) (*Outcome, error) {
	outcome := &Outcome{Status: StatusPassed, Index: -1}

	if len(shells) != len(snapshots) {
		outcome.fail(FailureCount, -1, fmt.Sprint(len(snapshots)), fmt.Sprint(len(shells)))
		r.Reporter.Unexpected("Amount of shell commands in "+r.Reporter.listPath, len(snapshots), len(shells))
		r.Reporter.SuggestRecord()
		return outcome, nil
	}

	for i, shell := range shells {
		r.Reporter.Replaying(shell)

		expected := snapshots[i]
		if shell != expected.Shell {
			outcome.fail(FailureShell, i, expected.Shell, shell)
			r.Reporter.Unexpected("shell command", expected.Shell, shell)
			r.Reporter.SuggestRecord()
			return outcome, nil
		}

		result, err := r.Capture(ctx, shell)
		if err != nil {
			return nil, fmt.Errorf("failed to replay %q: %w", shell, err)
		}
		outcome.Replayed++
		outcome.ExecutionTime += result.ExecutionTime

		if mismatches := Compare(expected, result.Snapshot); len(mismatches) > 0 {
			outcome.fail(FailureDrift, i, "", "")
			outcome.Mismatches = mismatches
			r.Reporter.Mismatches(mismatches)
			return outcome, nil
		}
	}

	r.Reporter.OK()
	return outcome, nil
}

func (o *Outcome) fail(kind FailureKind, index int, expected, actual string) {
	o.Status = StatusFailed
	o.Kind = kind
	o.Index = index
	o.Expected = expected
	o.Actual = actual
}
