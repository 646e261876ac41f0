package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultConfigNames are tried in order when no config file is given
var DefaultConfigNames = []string{
	".patchrc.hcl",
	".patchrc.yaml",
	".patchrc.yml",
	".patchrc.json",
	".patchrc",
}

func init() {
	Register(&rcParser{})
}

// rcParser handles extensionless .patchrc files, trying YAML first, then HCL
type rcParser struct{}

func (p *rcParser) CanParse(filename string) bool {
	return filepath.Base(filename) == ".patchrc" || strings.HasSuffix(filename, ".patchrc")
}

func (p *rcParser) Parse(ctx context.Context, data []byte, filename string) (*Config, error) {
	cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data, filename)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, err := (&HCLParser{}).Parse(ctx, data, filename)
	if err == nil {
		return cfg, nil
	}

	zerolog.Ctx(ctx).Debug().AnErr("yaml_error", yamlErr).AnErr("hcl_error", err).Msg("could not parse .patchrc")
	return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", filename, err)
}

// 🔍 Discover returns the first default config file present in dir, or ""
func Discover(dir string) (string, error) {
	for _, name := range DefaultConfigNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
	}
	return "", nil
}

// 🎯 Resolve loads the explicit config file if given, else a discovered one in
// dir, else the built-in default rooted at dir.
func Resolve(ctx context.Context, explicit string, dir string) (*Config, error) {
	if explicit != "" {
		return Load(ctx, explicit)
	}

	path, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	if path != "" {
		return Load(ctx, path)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using built-in rules")
	cfg := Default(dir)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating default config: %w", err)
	}
	return cfg, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
