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

// Package patch reads a file, applies pattern rules to it and writes it back.
package patch

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/files"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNoMatch is returned when RequireMatch is set and no rule matched
var ErrNoMatch = errors.Base("no rule matched")

// 🔧 Options control how the applier writes files
type Options struct {
	// Atomic writes through a temp file and rename
	Atomic bool

	// Backup copies the original to <path>.bak before writing
	Backup bool

	// RequireMatch fails without writing when no rule matched
	RequireMatch bool

	// SkipUnchanged avoids the write when content did not change
	SkipUnchanged bool

	// DryRun never writes
	DryRun bool
}

// 📊 Result is the outcome of applying rules to one file
type Result struct {
	Path         string
	Rules        []string
	Replacements int
	Changed      bool
	Written      bool
	BackupPath   string

	Original string
	Modified string
}

// Status maps the result onto a file status
func (r *Result) Status() status.FileStatus {
	switch {
	case r.Written && r.Changed:
		return status.StatusModified
	case !r.Written && r.Changed:
		return status.StatusSkipped
	default:
		return status.StatusUnchanged
	}
}

// FileInfo converts the result for reporting
func (r *Result) FileInfo() status.FileInfo {
	return status.FileInfo{
		Path:         r.Path,
		Status:       r.Status(),
		Rules:        r.Rules,
		Replacements: r.Replacements,
		Written:      r.Written,
	}
}

// 🩹 Applier applies compiled rules to files
type Applier struct {
	fm       files.FileManager
	codec    *text.Codec
	replacer *text.RegexpReplacer
	opts     Options
}

// 🏭 New creates an applier
func New(fm files.FileManager, codec *text.Codec, opts Options) *Applier {
	return &Applier{
		fm:       fm,
		codec:    codec,
		replacer: text.NewRegexpReplacer(),
		opts:     opts,
	}
}

// 🔄 Apply reads path, applies rules in order and writes the result back.
//
// A missing or unreadable file fails before anything is written. When a backup
// was taken and the write fails, the backup is restored. A write
// happens even when nothing matched unless SkipUnchanged or DryRun is set.
func (a *Applier) Apply(ctx context.Context, path string, rules ...*text.CompiledRule) (*Result, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()

	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}

	raw, err := a.fm.ReadFile(ctx, path)
	if err != nil {
		return nil, errors.Errorf("reading target: %w", err)
	}

	content, err := a.codec.Decode(raw)
	if err != nil {
		return nil, errors.Errorf("decoding %s: %w", path, err)
	}

	replaced, err := a.replacer.ReplaceString(ctx, content, rules)
	if err != nil {
		return nil, errors.Errorf("applying rules to %s: %w", path, err)
	}

	res := &Result{
		Path:         path,
		Rules:        names,
		Replacements: replaced.ReplacementCount,
		Changed:      replaced.WasModified,
		Original:     replaced.OriginalContent,
		Modified:     replaced.ModifiedContent,
	}

	logger.Debug().
		Strs("rules", names).
		Int("replacements", res.Replacements).
		Bool("changed", res.Changed).
		Msg("applied rules")

	if a.opts.RequireMatch && res.Replacements == 0 {
		return res, errors.Errorf("%s: %w", path, ErrNoMatch)
	}

	if a.opts.DryRun {
		return res, nil
	}

	if a.opts.SkipUnchanged && !res.Changed {
		logger.Debug().Msg("content unchanged, skipping write")
		return res, nil
	}

	out, err := a.codec.Encode(res.Modified)
	if err != nil {
		return res, errors.Errorf("encoding %s: %w", path, err)
	}

	if a.opts.Backup {
		backup, err := a.fm.BackupFile(ctx, path)
		if err != nil {
			return res, errors.Errorf("backing up target: %w", err)
		}
		res.BackupPath = backup
	}

	if a.opts.Atomic {
		err = a.fm.WriteFileAtomic(ctx, path, out)
	} else {
		err = a.fm.WriteFile(ctx, path, out)
	}
	if err != nil {
		if res.BackupPath != "" {
			if rerr := a.fm.RestoreFile(ctx, path); rerr != nil {
				logger.Error().Err(rerr).Msg("restoring backup after failed write")
				return res, errors.Errorf("writing target: %w (restore failed: %s)", err, rerr.Error())
			}
			res.BackupPath = ""
			logger.Debug().Msg("restored backup after failed write")
		}
		return res, errors.Errorf("writing target: %w", err)
	}

	res.Written = true
	logger.Debug().Bool("atomic", a.opts.Atomic).Int("bytes", len(out)).Msg("wrote file")
	return res, nil
}
