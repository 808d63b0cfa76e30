package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/rere/cmd/config"
	"github.com/zinc-sig/rere/cmd/helpers"
	"github.com/zinc-sig/rere/internal/output"
	"github.com/zinc-sig/rere/internal/replay"
	"github.com/zinc-sig/rere/internal/snapshot"
	"github.com/zinc-sig/rere/internal/testlist"
)

type recordOptions struct {
	runOptions
	Upload config.UploadConfig
}

func newRecordCmd() *cobra.Command {
	opts := &recordOptions{}

	cmd := &cobra.Command{
		Use:   "record <test.list>",
		Short: "Capture every command of a test list into <test.list>.bi",
		Long: `Run each line of <test.list> with '<shell> -c' and write exit codes,
stdout and stderr to <test.list>.bi, replacing any previous snapshot file.`,
		Example: `  rere record tests/cli.list
  rere record tests/cli.list --upload-provider minio --upload-config-file minio.yaml`,
		Args: requireTestList,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.parse()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, args[0], opts)
		},
	}

	opts.setupFlags(cmd)
	helpers.SetupUploadFlags(cmd, &opts.Upload)
	return cmd
}

func runRecord(cmd *cobra.Command, listPath string, opts *recordOptions) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()
	start := time.Now()

	shells, err := testlist.Load(listPath)
	if err != nil {
		return err
	}

	// Resolve everything that can fail on configuration before running commands
	provider, uploadConf, err := helpers.SetupUploadProvider(&opts.Upload)
	if err != nil {
		return err
	}
	if provider != nil && opts.Common.Verbose {
		helpers.PrintUploadInfo(cmd.ErrOrStderr(), provider, uploadConf)
	}

	reportContext, err := opts.buildContext()
	if err != nil {
		return err
	}

	recorder := &replay.Recorder{
		Capture:  helpers.NewCaptureFunc(&opts.Common, cmd.ErrOrStderr()),
		Reporter: replay.NewReporter(cmd.OutOrStdout(), cmd.Root().Name(), listPath),
	}
	snapshots, executionTime, err := recorder.Run(ctx, shells)
	if err != nil {
		return err
	}

	snapshotPath := testlist.SnapshotPath(listPath)
	if err := snapshot.Dump(snapshotPath, snapshots); err != nil {
		return err
	}

	if provider != nil {
		if _, err := helpers.PublishSnapshot(ctx, provider, snapshotPath, opts.Upload.RemotePath, opts.Common.Verbose, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	report := output.NewReport(output.ModeRecord, listPath, snapshotPath)
	report.Status = output.StatusRecorded
	report.Count = len(snapshots)
	report.ExecutionTime = executionTime
	report.Context = reportContext
	return opts.finish(ctx, cmd, report, start)
}
