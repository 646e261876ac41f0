// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/files"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the runner
type Options struct {
	// Config is the validated patchrc configuration
	Config *config.Config
	// Files performs all file system access
	Files files.FileManager
	// Logger receives per-file output
	Logger *log.Logger
	// DryRun computes results without writing
	DryRun bool
}

// 🎯 Target is one file and the rules that apply to it, in order
type Target struct {
	Path  string
	Rules []*text.CompiledRule
}

// RuleNames returns the names of the target's rules
func (t Target) RuleNames() []string {
	names := make([]string, len(t.Rules))
	for i, r := range t.Rules {
		names[i] = r.Name
	}
	return names
}

// 📋 Summary collects the results of a run
type Summary struct {
	Results []*patch.Result
}

// Modified returns the number of files whose content changed
func (s *Summary) Modified() int {
	n := 0
	for _, r := range s.Results {
		if r != nil && r.Changed {
			n++
		}
	}
	return n
}

// Replacements returns the total number of matches replaced
func (s *Summary) Replacements() int {
	n := 0
	for _, r := range s.Results {
		if r != nil {
			n += r.Replacements
		}
	}
	return n
}

// HasChanges reports whether any file changed or would change
func (s *Summary) HasChanges() bool {
	return s.Modified() > 0
}

// 🏃 Runner plans and applies the configured rules
type Runner struct {
	cfg      *config.Config
	fm       files.FileManager
	logger   *log.Logger
	codec    *text.Codec
	rules    []*text.CompiledRule
	reporter *status.Reporter
	dryRun   bool
}

// 🏭 New creates a runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Files == nil {
		return nil, errors.Errorf("file manager is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}

	codec, err := text.NewCodec(opts.Config.Encoding)
	if err != nil {
		return nil, errors.Errorf("creating codec: %w", err)
	}

	rules, err := text.CompileAll(opts.Config.Rules)
	if err != nil {
		return nil, errors.Errorf("compiling rules: %w", err)
	}

	return &Runner{
		cfg:      opts.Config,
		fm:       opts.Files,
		logger:   opts.Logger,
		codec:    codec,
		rules:    rules,
		reporter: status.NewReporter(nil),
		dryRun:   opts.DryRun,
	}, nil
}

// Reporter returns the runner's status reporter
func (r *Runner) Reporter() *status.Reporter {
	return r.reporter
}

func (r *Runner) patchOptions(dryRun bool) patch.Options {
	return patch.Options{
		Atomic:        r.cfg.IsAtomic(),
		Backup:        r.cfg.Backup,
		RequireMatch:  r.cfg.RequireMatch,
		SkipUnchanged: r.cfg.SkipUnchanged,
		DryRun:        dryRun,
	}
}
