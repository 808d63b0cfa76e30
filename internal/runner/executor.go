package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/zinc-sig/rere/internal/snapshot"
)

// DefaultShell is the POSIX shell used to interpret each command line.
const DefaultShell = "sh"

// Grace period for pipe readers once a timed-out process group is killed.
const waitDelay = 100 * time.Millisecond

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

type Config struct {
	Shell   string        // shell binary, DefaultShell when empty
	Command string        // command line passed to "<shell> -c"
	Timeout time.Duration // zero waits indefinitely
	Verbose bool
	Log     io.Writer // verbose details, os.Stderr when nil
}

type Result struct {
	Snapshot      snapshot.Snapshot
	Status        Status
	ExecutionTime int64 // milliseconds
}

// Capture runs config.Command through the shell and buffers its exit code,
// stdout and stderr. An error means the shell itself could not be run.
func Capture(ctx context.Context, config *Config) (*Result, error) {
	shell := config.Shell
	if shell == "" {
		shell = DefaultShell
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, shell, "-c", config.Command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		// Kill the whole group so background children release the pipes.
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if config.Verbose {
		PrintPreExecution(config.diagnostics(), shell, config)
	}

	startTime := time.Now()
	err := cmd.Run()
	executionTime := time.Since(startTime).Milliseconds()

	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)

	var exitCode int
	switch {
	case cmd.ProcessState != nil:
		exitCode = exitStatus(cmd.ProcessState)
	case timedOut:
		exitCode = -int(syscall.SIGKILL)
	case err != nil:
		return nil, fmt.Errorf("failed to start shell %s: %w", shell, err)
	}

	status := StatusSuccess
	if timedOut {
		status = StatusTimeout
	} else if exitCode != 0 {
		status = StatusFailed
	}

	if config.Verbose {
		PrintPostExecution(config.diagnostics(), status, exitCode, executionTime)
	}

	return &Result{
		Snapshot: snapshot.Snapshot{
			Shell:      config.Command,
			ReturnCode: exitCode,
			Stdout:     stdout.Bytes(),
			Stderr:     stderr.Bytes(),
		},
		Status:        status,
		ExecutionTime: executionTime,
	}, nil
}

// exitStatus returns the exit code, or the negated signal number when the
// process was killed by a signal.
func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return -int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	return state.ExitCode()
}
