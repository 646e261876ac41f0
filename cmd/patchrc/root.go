package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/files"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile   string
	root         string
	dryRun       bool
	requireMatch bool
	backup       bool
	noAtomic     bool
	async        bool
	jobs         int
	rules        []string
	debug        bool
}

// 🌱 NewRootCommand creates the patchrc command tree. Running it without a
// subcommand applies the rules.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ro := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "patchrc",
		Short: "Apply regular expression patch rules to source files in place",
		Long: `patchrc reads target files, applies pattern substitution rules to their
content and writes the result back to the same path.

Rules come from .patchrc.hcl, .patchrc.yaml, .patchrc.yml, .patchrc.json or
.patchrc in the root directory. Without a config file the built-in
remove-train-lookup rule is used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withDebug(cmd.Context(), flags.debug))
			return newRootOpts(cmd, flags, ro)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunApply(cmd, ro)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewApplyCmd(ro),
		commands.NewCheckCmd(ro),
		commands.NewRulesCmd(ro),
		newVersionCmd(flags),
	)

	return cmd
}

// newRootOpts loads the configuration and fills in the shared options
func newRootOpts(cmd *cobra.Command, flags *rootFlags, ro *opts.RootOpts) error {
	ctx := cmd.Context()

	dir := flags.root
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.Resolve(ctx, flags.configFile, dir)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if flags.root != "" {
		cfg.Root = filepath.Clean(flags.root)
	}
	if flags.requireMatch {
		cfg.RequireMatch = true
	}
	if flags.backup {
		cfg.Backup = true
	}
	if flags.noAtomic {
		cfg.SetAtomic(false)
	}
	if flags.async {
		cfg.Async = true
	}
	if flags.jobs < 0 {
		return errors.Errorf("--jobs must not be negative, got %d", flags.jobs)
	}
	if flags.jobs > 0 {
		cfg.Jobs = flags.jobs
	}

	if err := cfg.FilterRules(flags.rules); err != nil {
		return errors.Errorf("selecting rules: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("config", cfg.Location()).
		Str("hash", cfg.Hash()).
		Stringer("rules", cfg).
		Msg("resolved configuration")

	ro.Config = cfg
	ro.Files = files.New(cfg.Root)
	ro.Logger = log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
	ro.UserLogger = log.NewUserLogger(ctx)
	ro.DryRun = flags.dryRun

	return nil
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file path (default: discovered in root)")
	pf.StringVarP(&flags.root, "root", "r", "", "directory rule paths are resolved against (default: current directory)")
	pf.BoolVarP(&flags.dryRun, "dry-run", "n", false, "print pending changes without writing")
	pf.BoolVar(&flags.requireMatch, "require-match", false, "fail when a file matches none of its rules")
	pf.BoolVar(&flags.backup, "backup", false, "keep a .bak copy of every rewritten file")
	pf.BoolVar(&flags.noAtomic, "no-atomic", false, "rewrite files in place instead of through a temp file")
	pf.BoolVar(&flags.async, "async", false, "patch files concurrently")
	pf.IntVarP(&flags.jobs, "jobs", "j", 0, "maximum concurrent files with --async")
	pf.StringSliceVar(&flags.rules, "rule", nil, "only apply the named rules")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

// setupLogging attaches the process logger to ctx
func setupLogging(ctx context.Context) context.Context {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}

// withDebug lowers the context logger to debug level when enabled
func withDebug(ctx context.Context, debug bool) context.Context {
	if !debug {
		return ctx
	}
	logger := zerolog.Ctx(ctx).Level(zerolog.DebugLevel)
	return logger.WithContext(ctx)
}
