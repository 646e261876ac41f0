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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/patchrc/pkg/text"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclRule struct {
	Name        string   `hcl:"name,label"`
	Pattern     string   `hcl:"pattern"`
	Replacement string   `hcl:"replacement,optional"`
	Literal     bool     `hcl:"literal,optional"`
	DotAll      bool     `hcl:"dot_all,optional"`
	Files       []string `hcl:"files"`
	Message     string   `hcl:"message,optional"`
}

type hclConfig struct {
	Root          string    `hcl:"root,optional"`
	Encoding      string    `hcl:"encoding,optional"`
	Atomic        *bool     `hcl:"atomic,optional"`
	Backup        bool      `hcl:"backup,optional"`
	RequireMatch  bool      `hcl:"require_match,optional"`
	SkipUnchanged bool      `hcl:"skip_unchanged,optional"`
	Async         bool      `hcl:"async,optional"`
	Jobs          int       `hcl:"jobs,optional"`
	Rules         []hclRule `hcl:"rule,block"`
}

// 📝 Parse parses the config from HCL. Expressions can reference `config_dir`
// and `env.NAME`.
func (p *HCLParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"config_dir": cty.StringVal(filepath.Dir(filename)),
			"env":        envValue(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:          hclCfg.Root,
		Encoding:      hclCfg.Encoding,
		Atomic:        hclCfg.Atomic,
		Backup:        hclCfg.Backup,
		RequireMatch:  hclCfg.RequireMatch,
		SkipUnchanged: hclCfg.SkipUnchanged,
		Async:         hclCfg.Async,
		Jobs:          hclCfg.Jobs,
	}

	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, text.Rule{
			Name:        r.Name,
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Literal:     r.Literal,
			DotAll:      r.DotAll,
			Files:       r.Files,
			Message:     r.Message,
		})
	}

	return cfg, nil
}

func envValue() cty.Value {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	if len(vars) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vars)
}
