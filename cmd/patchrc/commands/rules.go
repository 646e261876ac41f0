package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/text"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the configured rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config

			source := cfg.Location()
			if source == "" {
				source = "built-in"
			}
			opts.Logger.Header(fmt.Sprintf("%d rule(s) from %s", len(cfg.Rules), source))

			for _, r := range cfg.Rules {
				opts.Logger.Raw(formatRule(r))
			}

			opts.UserLogger.LogValidation(true, "All rules compile", nil)
			return nil
		},
	}

	return cmd
}

func formatRule(r text.Rule) string {
	var flags []string
	if r.DotAll {
		flags = append(flags, "dotall")
	}
	if r.Literal {
		flags = append(flags, "literal")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", color.New(color.FgMagenta).Sprint("◆"), color.New(color.Bold).Sprint(r.Name))
	if len(flags) > 0 {
		fmt.Fprintf(&sb, " %s", color.New(color.Faint).Sprint("("+strings.Join(flags, ", ")+")"))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "    pattern  %s\n", r.Pattern)
	fmt.Fprintf(&sb, "    replace  %q\n", r.Replacement)
	for _, f := range r.Files {
		fmt.Fprintf(&sb, "    file     %s\n", f)
	}
	return sb.String()
}
