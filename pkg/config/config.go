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

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultJobs is the number of files patched at once when async is enabled
const DefaultJobs = 4

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	// Root is the directory rule paths are resolved against. Relative roots are
	// resolved against the config file's directory.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`

	// Encoding of target files, utf-8 by default
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`

	// Atomic writes go through a temp file and rename. Defaults to true.
	Atomic *bool `json:"atomic,omitempty" yaml:"atomic,omitempty"`

	// Backup keeps a .bak copy of every file before it is rewritten
	Backup bool `json:"backup,omitempty" yaml:"backup,omitempty"`

	// RequireMatch fails a file when none of its rules matched
	RequireMatch bool `json:"require_match,omitempty" yaml:"require_match,omitempty"`

	// SkipUnchanged avoids rewriting files whose content did not change
	SkipUnchanged bool `json:"skip_unchanged,omitempty" yaml:"skip_unchanged,omitempty"`

	// Async patches different files concurrently, at most Jobs at a time
	Async bool `json:"async,omitempty" yaml:"async,omitempty"`
	Jobs  int  `json:"jobs,omitempty" yaml:"jobs,omitempty"`

	Rules []text.Rule `json:"rules" yaml:"rules"`

	location string
}

// 🚂 Default returns the built-in configuration: the train lookup removal
// applied under root.
func Default(root string) *Config {
	return &Config{
		Root:     root,
		Encoding: text.DefaultEncoding,
		Rules:    []text.Rule{text.TrainLookupRule()},
	}
}

// 🎯 Load reads, parses and validates a configuration file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := readFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	cfg.location = path
	if cfg.Root == "" {
		cfg.Root = filepath.Dir(path)
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Str("hash", cfg.Hash()).Int("rules", len(cfg.Rules)).Msg("loaded configuration")
	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	if len(cfg.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}

	if err := text.NewRegexpReplacer().ValidateRules(cfg.Rules); err != nil {
		return err
	}

	if cfg.Encoding == "" {
		cfg.Encoding = text.DefaultEncoding
	}
	if _, err := text.NewCodec(cfg.Encoding); err != nil {
		return errors.Errorf("encoding: %w", err)
	}

	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = DefaultJobs
	}

	if cfg.Root == "" {
		cfg.Root = "."
	}
	cfg.Root = filepath.Clean(cfg.Root)

	return nil
}

// IsAtomic reports whether writes should go through temp file and rename
func (cfg *Config) IsAtomic() bool {
	return cfg.Atomic == nil || *cfg.Atomic
}

// SetAtomic sets the atomic write mode
func (cfg *Config) SetAtomic(v bool) {
	cfg.Atomic = &v
}

// Location returns the file the config was loaded from, empty for defaults
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔑 Hash returns a stable hash of the configuration
func (cfg *Config) Hash() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FilterRules keeps only the named rules, in their configured order
func (cfg *Config) FilterRules(names []string) error {
	if len(names) == 0 {
		return nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var kept []text.Rule
	for _, r := range cfg.Rules {
		if want[r.Name] {
			kept = append(kept, r)
			delete(want, r.Name)
		}
	}

	if len(want) > 0 {
		missing := make([]string, 0, len(want))
		for _, n := range names {
			if want[n] {
				missing = append(missing, n)
			}
		}
		return errors.Errorf("unknown rules: %s", strings.Join(missing, ", "))
	}

	cfg.Rules = kept
	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	names := make([]string, len(cfg.Rules))
	for i, r := range cfg.Rules {
		names[i] = r.Name
	}
	return fmt.Sprintf("%s [%s]", cfg.Root, strings.Join(names, ", "))
}
