package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/rere/cmd/helpers"
	"github.com/zinc-sig/rere/internal/output"
	"github.com/zinc-sig/rere/internal/replay"
	"github.com/zinc-sig/rere/internal/snapshot"
	"github.com/zinc-sig/rere/internal/testlist"
)

func newReplayCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "replay <test.list>",
		Short: "Check current behaviour against <test.list>.bi",
		Long: `Run each line of <test.list> again and compare exit code, stdout and
stderr with the snapshot recorded in <test.list>.bi.

Exits 0 and prints OK when every command matches. Exits 1 at the first
mismatch: a different number of commands, a changed command line, or
changed exit code or output.`,
		Example: `  rere replay tests/cli.list
  rere replay tests/cli.list --json --webhook-url https://ci.example.com/hooks/rere`,
		Args: requireTestList,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.parse()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], opts)
		},
	}

	opts.setupFlags(cmd)
	return cmd
}

func runReplay(cmd *cobra.Command, listPath string, opts *runOptions) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	start := time.Now()

	shells, err := testlist.Load(listPath)
	if err != nil {
		return err
	}

	snapshotPath := testlist.SnapshotPath(listPath)
	snapshots, err := snapshot.Load(snapshotPath)
	if err != nil {
		return err
	}

	reportContext, err := opts.buildContext()
	if err != nil {
		return err
	}

	replayer := &replay.Replayer{
		Capture:  helpers.NewCaptureFunc(&opts.Common, cmd.ErrOrStderr()),
		Reporter: replay.NewReporter(cmd.OutOrStdout(), cmd.Root().Name(), listPath),
	}
	outcome, err := replayer.Run(ctx, shells, snapshots)
	if err != nil {
		return err
	}

	report := output.NewReport(output.ModeReplay, listPath, snapshotPath)
	report.ApplyOutcome(outcome)
	report.Context = reportContext
	if err := opts.finish(ctx, cmd, report, start); err != nil {
		return err
	}

	if !outcome.Passed() {
		return replay.ErrReplayFailed
	}
	return nil
}
