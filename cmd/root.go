package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zinc-sig/rere/internal/replay"
)

var errNoSubcommand = errors.New("no subcommand is provided")

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rere <record|replay> <test.list>",
		Short: "Record and replay shell command snapshots",
		Long: `rere runs every command of a test list through a POSIX shell and
captures its exit code, stdout and stderr.

record writes the captured results to <test.list>.bi.
replay runs the commands again and fails on the first divergence from
the recorded snapshot, printing a unified diff for changed output.`,
		SilenceErrors: true,
		// Positional args reach RunE so an unknown subcommand gets usage too
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown subcommand %q", args[0])
			}
			return errNoSubcommand
		},
	}

	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newReplayCmd())
	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		// A failed replay has already been reported on stdout
		if !errors.Is(err, replay.ErrReplayFailed) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}

// requireTestList rejects a missing <test.list> argument.
func requireTestList(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no test.list is provided")
	}
	return cobra.MaximumNArgs(1)(cmd, args)
}
