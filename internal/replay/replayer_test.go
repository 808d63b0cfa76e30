package replay

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zinc-sig/rere/internal/runner"
	"github.com/zinc-sig/rere/internal/snapshot"
)

// fakeCapture returns canned results and records which shells ran.
type fakeCapture struct {
	results map[string]snapshot.Snapshot
	err     error
	ran     []string
}

func (f *fakeCapture) capture(ctx context.Context, shell string) (*runner.Result, error) {
	f.ran = append(f.ran, shell)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.results[shell]
	if !ok {
		s = snapshot.Snapshot{Shell: shell}
	}
	return &runner.Result{Snapshot: s, ExecutionTime: 1}, nil
}

func realCapture(ctx context.Context, shell string) (*runner.Result, error) {
	return runner.Capture(ctx, &runner.Config{Command: shell})
}

func newReplayer(capture CaptureFunc, out *bytes.Buffer) *Replayer {
	return &Replayer{
		Capture:  capture,
		Reporter: NewReporter(out, "rere", "test.list"),
	}
}

func TestReplayer_CountMismatch(t *testing.T) {
	fake := &fakeCapture{}
	var out bytes.Buffer

	snapshots := []snapshot.Snapshot{{Shell: "echo a"}, {Shell: "echo b"}}
	outcome, err := newReplayer(fake.capture, &out).Run(context.Background(),
		[]string{"echo a", "echo b", "echo c"}, snapshots)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Passed() {
		t.Fatal("expected failed outcome")
	}
	if outcome.Kind != FailureCount {
		t.Errorf("Kind = %q, want %q", outcome.Kind, FailureCount)
	}
	if outcome.Expected != "2" || outcome.Actual != "3" {
		t.Errorf("Expected/Actual = %q/%q, want 2/3", outcome.Expected, outcome.Actual)
	}
	if len(fake.ran) != 0 {
		t.Errorf("no command should run, ran %v", fake.ran)
	}

	report := out.String()
	for _, want := range []string{
		"UNEXPECTED: Amount of shell commands in test.list",
		"    EXPECTED: 2\n",
		"    ACTUAL:   3\n",
		"NOTE: You may want to do `rere record test.list` to update test.list.bi",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestReplayer_ShellMismatch(t *testing.T) {
	fake := &fakeCapture{}
	var out bytes.Buffer

	snapshots := []snapshot.Snapshot{{Shell: "echo A"}, {Shell: "echo C"}}
	outcome, err := newReplayer(fake.capture, &out).Run(context.Background(),
		[]string{"echo B", "echo C"}, snapshots)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Kind != FailureShell || outcome.Index != 0 {
		t.Errorf("outcome = %+v, want shell failure at 0", outcome)
	}
	if outcome.Expected != "echo A" || outcome.Actual != "echo B" {
		t.Errorf("Expected/Actual = %q/%q", outcome.Expected, outcome.Actual)
	}
	if len(fake.ran) != 0 {
		t.Errorf("no command should run, ran %v", fake.ran)
	}

	report := out.String()
	if !strings.Contains(report, "    EXPECTED: echo A\n    ACTUAL:   echo B\n") {
		t.Errorf("report missing expected/actual shell:\n%s", report)
	}
	if strings.Contains(report, "echo C") {
		t.Errorf("replay should stop at the first mismatch:\n%s", report)
	}
}

func TestReplayer_DriftStopsAtFirstFailure(t *testing.T) {
	fake := &fakeCapture{
		results: map[string]snapshot.Snapshot{
			"one": {Shell: "one", ReturnCode: 1, Stdout: []byte("new\n"), Stderr: []byte("e\n")},
		},
	}
	var out bytes.Buffer

	snapshots := []snapshot.Snapshot{
		{Shell: "zero"},
		{Shell: "one", Stdout: []byte("old\n")},
		{Shell: "two"},
	}
	outcome, err := newReplayer(fake.capture, &out).Run(context.Background(),
		[]string{"zero", "one", "two"}, snapshots)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if outcome.Kind != FailureDrift || outcome.Index != 1 {
		t.Errorf("outcome = %+v, want drift at 1", outcome)
	}
	if len(outcome.Mismatches) != 3 {
		t.Errorf("got %d mismatches, want all 3 fields", len(outcome.Mismatches))
	}
	if got := strings.Join(fake.ran, ","); got != "zero,one" {
		t.Errorf("ran %q, want zero,one", got)
	}
	if outcome.Replayed != 2 || outcome.ExecutionTime != 2 {
		t.Errorf("Replayed/ExecutionTime = %d/%d, want 2/2", outcome.Replayed, outcome.ExecutionTime)
	}

	report := out.String()
	for _, want := range []string{
		"UNEXPECTED: return code\n    EXPECTED: 0\n    ACTUAL:   1\n",
		"UNEXPECTED: stdout\n--- expected\n+++ actual\n",
		"-old\n+new\n",
		"UNEXPECTED: stderr\n",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "OK") {
		t.Errorf("failed replay must not print OK:\n%s", report)
	}
}

func TestReplayer_CaptureError(t *testing.T) {
	fake := &fakeCapture{err: errors.New("no shell")}
	var out bytes.Buffer

	_, err := newReplayer(fake.capture, &out).Run(context.Background(),
		[]string{"echo a"}, []snapshot.Snapshot{{Shell: "echo a"}})
	if err == nil || !strings.Contains(err.Error(), "no shell") {
		t.Errorf("Run() error = %v, want wrapped capture error", err)
	}
}

func TestRecordThenReplay(t *testing.T) {
	shells := []string{"echo hello", `printf 'x\ny\n'`, "", "echo oops >&2; exit 3"}
	var out bytes.Buffer
	reporter := NewReporter(&out, "rere", "test.list")

	recorder := &Recorder{Capture: realCapture, Reporter: reporter}
	snapshots, _, err := recorder.Run(context.Background(), shells)
	if err != nil {
		t.Fatalf("Recorder.Run() error = %v", err)
	}
	if len(snapshots) != len(shells) {
		t.Fatalf("recorded %d snapshots, want %d", len(snapshots), len(shells))
	}
	if string(snapshots[1].Stdout) != "x\ny\n" {
		t.Errorf("stdout = %q", snapshots[1].Stdout)
	}
	if snapshots[3].ReturnCode != 3 {
		t.Errorf("returncode = %d, want 3", snapshots[3].ReturnCode)
	}
	if !strings.Contains(out.String(), "CAPTURING: echo hello\n") {
		t.Errorf("record transcript missing CAPTURING line:\n%s", out.String())
	}

	out.Reset()
	replayer := &Replayer{Capture: realCapture, Reporter: reporter}
	outcome, err := replayer.Run(context.Background(), shells, snapshots)
	if err != nil {
		t.Fatalf("Replayer.Run() error = %v", err)
	}
	if !outcome.Passed() {
		t.Fatalf("outcome = %+v, want passed\n%s", outcome, out.String())
	}
	if !strings.HasSuffix(out.String(), "OK\n") {
		t.Errorf("replay transcript should end with OK:\n%s", out.String())
	}
}

func TestReplay_OutputDrift(t *testing.T) {
	var out bytes.Buffer
	recorded := []snapshot.Snapshot{{Shell: "echo hello", Stdout: []byte("hello\n")}}

	replayer := newReplayer(func(ctx context.Context, shell string) (*runner.Result, error) {
		// Same command text, different behaviour.
		return runner.Capture(ctx, &runner.Config{Command: "echo goodbye"})
	}, &out)

	outcome, err := replayer.Run(context.Background(), []string{"echo hello"}, recorded)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Passed() {
		t.Fatal("expected drift")
	}
	if !strings.Contains(out.String(), "-hello\n+goodbye\n") {
		t.Errorf("missing stdout diff:\n%s", out.String())
	}
}
