package operation

import (
	"context"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/files"
	"gitlab.com/tozd/go/errors"
)

// ErrNoTargets is returned when none of a rule's file entries matched a file
var ErrNoTargets = errors.Base("rule matched no files")

// 🗺️ Plan expands every rule's files into targets. Targets keep the order in
// which files were first seen and each target keeps the configured rule order.
// A rule that resolves to no file at all fails the plan.
func (r *Runner) Plan(ctx context.Context) ([]Target, error) {
	logger := zerolog.Ctx(ctx)

	var targets []Target
	index := make(map[string]int)

	for _, rule := range r.rules {
		matched := 0
		for _, pattern := range rule.Files {
			matches, err := r.fm.Glob(ctx, pattern)
			if err != nil {
				return nil, errors.Errorf("rule %q: %w", rule.Name, err)
			}

			if len(matches) == 0 && files.HasMeta(pattern) {
				r.logger.Warningf("%s: %s matched no files", rule.Name, pattern)
				continue
			}
			matched += len(matches)

			for _, m := range matches {
				key := path.Clean(filepath.ToSlash(m))
				i, ok := index[key]
				if !ok {
					i = len(targets)
					index[key] = i
					targets = append(targets, Target{Path: key})
				}
				if !containsRule(targets[i], rule.Name) {
					targets[i].Rules = append(targets[i].Rules, rule)
				}
			}
		}

		if matched == 0 {
			return nil, errors.Errorf("rule %q: %w", rule.Name, ErrNoTargets)
		}
	}

	logger.Debug().Int("targets", len(targets)).Int("rules", len(r.rules)).Msg("planned patch run")
	return targets, nil
}

func containsRule(t Target, name string) bool {
	for _, r := range t.Rules {
		if r.Name == name {
			return true
		}
	}
	return false
}
