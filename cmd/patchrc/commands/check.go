package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ErrChangesPending is returned by check when at least one file would change
var ErrChangesPending = errors.Base("files need patching")

// NewCheckCmd creates a new check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check if any file still needs patching",
		Long: `Check runs every rule without writing and fails when a file would change.
Files that were already patched are left alone by the rules, so check passes
after a successful apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			runner, err := opts.NewRunner()
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			pending, summary, err := runner.Check(ctx)
			if err != nil {
				return errors.Errorf("checking files: %w", err)
			}

			reporter := runner.Reporter()
			for _, f := range reporter.Files() {
				if f.Status == status.StatusSkipped {
					opts.Logger.Warningf("%s needs patching (%s)", f.Path, strings.Join(f.Rules, ", "))
				}
			}
			logCounts(opts, reporter)

			if pending {
				opts.UserLogger.LogStateChange(fmt.Sprintf("%d file(s) need patching", summary.Modified()))
				return errors.WithStack(ErrChangesPending)
			}

			opts.UserLogger.LogStateChange("Files are up to date")
			return nil
		},
	}

	return cmd
}
