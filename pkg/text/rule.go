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
	"regexp"

	"gitlab.com/tozd/go/errors"
)

// 📐 Rule is a single pattern substitution applied to whole-file content
type Rule struct {
	// Name identifies the rule in logs and filters
	Name string `json:"name" yaml:"name"`

	// Pattern is an RE2 regular expression
	Pattern string `json:"pattern" yaml:"pattern"`

	// Replacement is inserted for every match. $1 and ${name} are expanded
	// unless Literal is set.
	Replacement string `json:"replacement" yaml:"replacement"`

	// Literal inserts Replacement verbatim
	Literal bool `json:"literal,omitempty" yaml:"literal,omitempty"`

	// DotAll lets '.' match newlines so a match can span lines
	DotAll bool `json:"dot_all,omitempty" yaml:"dot_all,omitempty"`

	// Files are paths or doublestar globs relative to the root
	Files []string `json:"files" yaml:"files"`

	// Message is printed once the rule has been applied to all of its files
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// 🔧 CompiledRule is a Rule with its pattern compiled
type CompiledRule struct {
	Rule
	re *regexp.Regexp
}

// 📊 Result contains the outcome of applying rules to some content
type Result struct {
	// OriginalContent is the content before replacements
	OriginalContent string

	// ModifiedContent is the content after replacements
	ModifiedContent string

	// ReplacementCount is the number of matches replaced across all rules
	ReplacementCount int

	// WasModified is true when ModifiedContent differs from OriginalContent
	WasModified bool
}

// 🏗️ Compile builds the rule's regular expression
func (r Rule) Compile() (*CompiledRule, error) {
	if r.Pattern == "" {
		return nil, errors.Errorf("rule %q: pattern is required", r.Name)
	}

	src := r.Pattern
	if r.DotAll {
		src = "(?s)" + src
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, errors.Errorf("rule %q: compiling pattern: %w", r.Name, err)
	}

	return &CompiledRule{Rule: r, re: re}, nil
}

// MustCompile is like Compile but panics on error
func (r Rule) MustCompile() *CompiledRule {
	c, err := r.Compile()
	if err != nil {
		panic(err)
	}
	return c
}

// Regexp returns the compiled expression
func (c *CompiledRule) Regexp() *regexp.Regexp {
	return c.re
}

// 🔄 Apply replaces every non-overlapping match in content
func (c *CompiledRule) Apply(content string) Result {
	res := Result{
		OriginalContent: content,
		ModifiedContent: content,
	}

	matches := c.re.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return res
	}

	if c.Literal {
		res.ModifiedContent = c.re.ReplaceAllLiteralString(content, c.Replacement)
	} else {
		res.ModifiedContent = c.re.ReplaceAllString(content, c.Replacement)
	}
	res.ReplacementCount = len(matches)
	res.WasModified = res.ModifiedContent != content

	return res
}

const (
	// TrainLookupRuleName is the name of the built-in rule
	TrainLookupRuleName = "remove-train-lookup"

	// TrainLookupTarget is the file the built-in rule edits
	TrainLookupTarget = "frontend/src/app/billetter/add/page.tsx"
)

// UnicodeSpace matches one whitespace character in the Unicode sense. RE2's \s
// only covers ASCII, so \v, U+0085, no-break space and the other space
// separators are listed explicitly.
const UnicodeSpace = `[\t-\r\x{1c}-\x{20}\x{85}\p{Z}]`

// 🚂 TrainLookupRule removes the "Train Lookup Button" block from the ticket form.
//
// The match starts at any whitespace before the start marker and stops at the
// first "{/* Arrival Date" that follows. Only the opening of the end marker is
// put back; whatever followed it in the file is left alone.
func TrainLookupRule() Rule {
	return Rule{
		Name:        TrainLookupRuleName,
		Pattern:     UnicodeSpace + `*\{/\* Train Lookup Button \(TR-IM-303\) \*/\}.*?\{/\* Arrival Date`,
		Replacement: "            {/* Arrival Date",
		Literal:     true,
		DotAll:      true,
		Files:       []string{TrainLookupTarget},
		Message:     "Train lookup section removed successfully!",
	}
}
