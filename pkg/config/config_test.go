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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/text"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		config      string
		env         map[string]string
		errContains string
		check       func(t *testing.T, dir string, cfg *Config)
	}{
		{
			name: "yaml_train_lookup",
			file: ".patchrc.yaml",
			config: `
encoding: utf-8
backup: true
rules:
  - name: remove-train-lookup
    pattern: '[\t-\r\x{1c}-\x{20}\x{85}\p{Z}]*\{/\* Train Lookup Button \(TR-IM-303\) \*/\}.*?\{/\* Arrival Date'
    replacement: '            {/* Arrival Date'
    literal: true
    dot_all: true
    files:
      - frontend/src/app/billetter/add/page.tsx
    message: Train lookup section removed successfully!
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				require.Len(t, cfg.Rules, 1)
				assert.Equal(t, text.TrainLookupRule(), cfg.Rules[0], "rule should match the built-in rule")
				assert.Equal(t, dir, cfg.Root, "root defaults to the config directory")
				assert.True(t, cfg.Backup)
				assert.True(t, cfg.IsAtomic(), "atomic defaults to true")
				assert.Equal(t, DefaultJobs, cfg.Jobs)
			},
		},
		{
			name: "hcl_with_env_and_escapes",
			file: ".patchrc.hcl",
			env:  map[string]string{"PATCHRC_TEST_SUFFIX": "final"},
			config: `
root          = "web"
atomic        = false
require_match = true
async         = true
jobs          = 2

rule "bump" {
  pattern     = "v(\\d+)"
  replacement = "v$${1}-${env.PATCHRC_TEST_SUFFIX}"
  files       = ["**/*.txt", "README.md"]
}

rule "strip" {
  pattern = "(?m)^# .*$"
  files   = ["${config_dir}/notes.md"]
}
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				require.Len(t, cfg.Rules, 2)
				assert.Equal(t, "bump", cfg.Rules[0].Name)
				assert.Equal(t, `v(\d+)`, cfg.Rules[0].Pattern)
				assert.Equal(t, "v${1}-final", cfg.Rules[0].Replacement)
				assert.Equal(t, []string{"**/*.txt", "README.md"}, cfg.Rules[0].Files)
				assert.Equal(t, []string{filepath.Join(dir, "notes.md")}, cfg.Rules[1].Files)
				assert.Equal(t, filepath.Join(dir, "web"), cfg.Root)
				assert.False(t, cfg.IsAtomic())
				assert.True(t, cfg.RequireMatch)
				assert.True(t, cfg.Async)
				assert.Equal(t, 2, cfg.Jobs)
			},
		},
		{
			name: "json",
			file: ".patchrc.json",
			config: `{
  "root": "/srv/app",
  "skip_unchanged": true,
  "rules": [
    {"name": "a", "pattern": "foo", "replacement": "bar", "files": ["a.ts"]}
  ]
}`,
			check: func(t *testing.T, dir string, cfg *Config) {
				assert.Equal(t, "/srv/app", cfg.Root, "absolute roots are kept")
				assert.True(t, cfg.SkipUnchanged)
				assert.Equal(t, "utf-8", cfg.Encoding)
			},
		},
		{
			name: "extensionless_yaml",
			file: ".patchrc",
			config: `
rules:
  - name: a
    pattern: foo
    files: [a.ts]
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				require.Len(t, cfg.Rules, 1)
			},
		},
		{
			name: "extensionless_hcl",
			file: ".patchrc",
			config: `
rule "a" {
  pattern = "foo"
  files   = ["a.ts"]
}
`,
			check: func(t *testing.T, dir string, cfg *Config) {
				require.Len(t, cfg.Rules, 1)
				assert.Equal(t, "a", cfg.Rules[0].Name)
			},
		},
		{
			name:        "yaml_unknown_field",
			file:        "x.yaml",
			config:      "rules: []\nbogus: true\n",
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			file:        "x.json",
			config:      `{"bogus": true}`,
			errContains: "parsing JSON",
		},
		{
			name:        "hcl_syntax_error",
			file:        "x.hcl",
			config:      `rule "a" {`,
			errContains: "parsing HCL",
		},
		{
			name:        "no_rules",
			file:        "x.yaml",
			config:      "backup: true\n",
			errContains: "at least one rule is required",
		},
		{
			name: "bad_encoding",
			file: "x.yaml",
			config: `
encoding: klingon
rules:
  - {name: a, pattern: foo, files: [a]}
`,
			errContains: `unknown encoding "klingon"`,
		},
		{
			name: "bad_pattern",
			file: "x.yaml",
			config: `
rules:
  - {name: a, pattern: "(", files: [a]}
`,
			errContains: "compiling pattern",
		},
		{
			name: "negative_jobs",
			file: "x.yaml",
			config: `
jobs: -1
rules:
  - {name: a, pattern: foo, files: [a]}
`,
			errContains: "jobs must not be negative",
		},
		{
			name:        "unsupported_extension",
			file:        "x.toml",
			config:      "",
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := writeConfig(t, dir, tt.file, tt.config)

			cfg, err := Load(testContext(t), path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, path, cfg.Location())
			if tt.check != nil {
				tt.check(t, dir, cfg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), ".patchrc.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve(t *testing.T) {
	t.Run("built_in_default", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := Resolve(testContext(t), "", dir)
		require.NoError(t, err)

		assert.Empty(t, cfg.Location())
		assert.Equal(t, dir, cfg.Root)
		require.Len(t, cfg.Rules, 1)
		assert.Equal(t, text.TrainLookupRuleName, cfg.Rules[0].Name)
		assert.True(t, cfg.IsAtomic())
	})

	t.Run("discovers_in_order", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".patchrc.json", `{"rules": [{"name": "json", "pattern": "x", "files": ["a"]}]}`)
		writeConfig(t, dir, ".patchrc.yaml", "rules:\n  - {name: yaml, pattern: x, files: [a]}\n")

		path, err := Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, ".patchrc.yaml"), path)

		cfg, err := Resolve(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Rules[0].Name)
	})

	t.Run("explicit_wins", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ".patchrc.yaml", "rules:\n  - {name: discovered, pattern: x, files: [a]}\n")
		explicit := writeConfig(t, dir, "custom.json", `{"rules": [{"name": "explicit", "pattern": "x", "files": ["a"]}]}`)

		cfg, err := Resolve(testContext(t), explicit, dir)
		require.NoError(t, err)
		assert.Equal(t, "explicit", cfg.Rules[0].Name)
	})
}

func TestConfig_FilterRules(t *testing.T) {
	newCfg := func() *Config {
		return &Config{Rules: []text.Rule{
			{Name: "a", Pattern: "a", Files: []string{"f"}},
			{Name: "b", Pattern: "b", Files: []string{"f"}},
			{Name: "c", Pattern: "c", Files: []string{"f"}},
		}}
	}

	cfg := newCfg()
	require.NoError(t, cfg.FilterRules([]string{"c", "a"}))
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "a", cfg.Rules[0].Name, "configured order is kept")
	assert.Equal(t, "c", cfg.Rules[1].Name)

	cfg = newCfg()
	require.NoError(t, cfg.FilterRules(nil))
	assert.Len(t, cfg.Rules, 3)

	cfg = newCfg()
	err := cfg.FilterRules([]string{"a", "zzz"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown rules: zzz")
}

func TestConfig_Hash(t *testing.T) {
	a := Default("/repo")
	b := Default("/repo")
	assert.Equal(t, a.Hash(), b.Hash(), "hash should be stable")

	b.Backup = true
	assert.NotEqual(t, a.Hash(), b.Hash(), "hash should change with config")

	assert.Equal(t, "/repo [remove-train-lookup]", a.String())
}
