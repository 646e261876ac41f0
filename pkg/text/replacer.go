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

package text

import (
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies the rules in order to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []*CompiledRule) (*Result, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []Rule) error
}

// RegexpReplacer implements TextReplacer with compiled regular expressions
type RegexpReplacer struct{}

// NewRegexpReplacer creates a new RegexpReplacer
func NewRegexpReplacer() *RegexpReplacer {
	return &RegexpReplacer{}
}

var _ TextReplacer = (*RegexpReplacer)(nil)

// ReplaceText implements TextReplacer.ReplaceText
func (r *RegexpReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []*CompiledRule) (*Result, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	return r.ReplaceString(ctx, string(data), rules)
}

// ReplaceString applies the rules in order to already decoded content
func (r *RegexpReplacer) ReplaceString(ctx context.Context, content string, rules []*CompiledRule) (*Result, error) {
	result := &Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	current := content
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("applying rule %q: %w", rule.Name, err)
		}

		res := rule.Apply(current)
		result.ReplacementCount += res.ReplacementCount
		current = res.ModifiedContent
	}

	result.ModifiedContent = current
	result.WasModified = current != content
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *RegexpReplacer) ValidateRules(rules []Rule) error {
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		if strings.TrimSpace(rule.Name) == "" {
			return errors.Errorf("rule %d: name is required", i)
		}
		if _, ok := seen[rule.Name]; ok {
			return errors.Errorf("rule %d: duplicate name %q", i, rule.Name)
		}
		seen[rule.Name] = struct{}{}

		if rule.Pattern == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
		if len(rule.Files) == 0 {
			return errors.Errorf("rule %d: at least one file is required", i)
		}
		for _, f := range rule.Files {
			if strings.TrimSpace(f) == "" {
				return errors.Errorf("rule %d: empty file entry", i)
			}
		}
		if _, err := rule.Compile(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// CompileAll compiles rules in order
func CompileAll(rules []Rule) ([]*CompiledRule, error) {
	out := make([]*CompiledRule, 0, len(rules))
	for _, rule := range rules {
		c, err := rule.Compile()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
