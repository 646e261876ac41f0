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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Run plans and applies every rule. The first failure stops the run.
// Rule messages are printed only when every file succeeded.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	targets, err := r.Plan(ctx)
	if err != nil {
		return nil, errors.Errorf("planning: %w", err)
	}

	summary, err := r.execute(ctx, targets, r.patchOptions(r.dryRun))
	if err != nil {
		return summary, err
	}

	if !r.dryRun {
		for _, rule := range r.rules {
			if rule.Message != "" {
				r.logger.Success(rule.Message)
			}
		}
	}

	return summary, nil
}

// 🔍 Check reports whether applying the rules would change any file. Nothing
// is written.
func (r *Runner) Check(ctx context.Context) (bool, *Summary, error) {
	targets, err := r.Plan(ctx)
	if err != nil {
		return false, nil, errors.Errorf("planning: %w", err)
	}

	opts := r.patchOptions(true)
	opts.RequireMatch = false

	summary, err := r.execute(ctx, targets, opts)
	if err != nil {
		return false, summary, err
	}

	return summary.HasChanges(), summary, nil
}

func (r *Runner) execute(ctx context.Context, targets []Target, opts patch.Options) (*Summary, error) {
	applier := patch.New(r.fm, r.codec, opts)

	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}

	r.logger.StartRun(ctx, log.RunOperation{
		Root:   r.cfg.Root,
		Rules:  names,
		Files:  len(targets),
		DryRun: opts.DryRun,
	})
	defer r.logger.EndRun(ctx)

	r.reporter.StartOperation(ctx, len(targets))

	summary := &Summary{Results: make([]*patch.Result, len(targets))}

	if r.cfg.Async && len(targets) > 1 {
		return summary, r.runAsync(ctx, applier, targets, summary)
	}
	return summary, r.runSync(ctx, applier, targets, summary)
}

// 🔄 runSync applies targets one after another
func (r *Runner) runSync(ctx context.Context, applier *patch.Applier, targets []Target, summary *Summary) error {
	for i, t := range targets {
		res, err := r.applyTarget(ctx, applier, t)
		summary.Results[i] = res
		if err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync applies targets concurrently, at most Jobs at a time
func (r *Runner) runAsync(ctx context.Context, applier *patch.Applier, targets []Target, summary *Summary) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Jobs)

	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("patching %s: %w", t.Path, err)
			}
			res, err := r.applyTarget(gctx, applier, t)
			summary.Results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

func (r *Runner) applyTarget(ctx context.Context, applier *patch.Applier, t Target) (*patch.Result, error) {
	ctx = zerolog.Ctx(ctx).With().Str("target", t.Path).Logger().WithContext(ctx)

	res, err := applier.Apply(ctx, t.Path, t.Rules...)
	if err != nil {
		info := status.FileInfo{
			Path:   t.Path,
			Status: status.StatusFailed,
			Rules:  t.RuleNames(),
			Error:  err,
		}
		r.reporter.TrackFile(ctx, info)
		r.logger.LogFile(ctx, info)
		return res, errors.Errorf("patching %s: %w", t.Path, err)
	}

	info := res.FileInfo()
	r.reporter.TrackFile(ctx, info)
	r.logger.LogFile(ctx, info)
	return res, nil
}
