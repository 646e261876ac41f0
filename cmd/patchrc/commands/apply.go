package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply patch rules to their target files",
		Long: `Apply reads every target file, applies its rules in order and writes
the result back in place.

With --dry-run nothing is written and a diff of each pending change is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunApply(cmd, opts)
		},
	}

	return cmd
}

// RunApply runs the apply command. The root command uses it when no
// subcommand is given.
func RunApply(cmd *cobra.Command, opts *opts.RootOpts) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

	runner, err := opts.NewRunner()
	if err != nil {
		return errors.Errorf("creating runner: %w", err)
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		return errors.Errorf("applying rules: %w", err)
	}

	if opts.DryRun {
		for _, res := range summary.Results {
			if res != nil && res.Changed {
				opts.UserLogger.LogDiff(res.Path, patch.Diff(res))
			}
		}
	}

	logCounts(opts, runner.Reporter())
	return nil
}

// logCounts prints how many files ended in each status
func logCounts(opts *opts.RootOpts, reporter *status.Reporter) {
	counts := reporter.Counts()
	opts.Logger.Infof("%d modified, %d unchanged, %d pending",
		counts[status.StatusModified],
		counts[status.StatusUnchanged],
		counts[status.StatusSkipped])
}
