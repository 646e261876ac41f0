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

package files

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// BackupSuffix is appended to a file's path to form its backup path
const BackupSuffix = ".bak"

// 🚫 AccessError reports a failed file system operation on a target file
type AccessError struct {
	Op   string // read, write, stat, backup, restore
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// 💾 FileManager handles all file system operations on target files
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)

	BackupFile(ctx context.Context, path string) (string, error)
	RestoreFile(ctx context.Context, path string) error

	Glob(ctx context.Context, pattern string) ([]string, error)
}

// 🔧 Manager implements FileManager relative to a root directory
type Manager struct {
	root string
}

var _ FileManager = (*Manager)(nil)

// 🏭 New creates a manager rooted at root
func New(root string) *Manager {
	if root == "" {
		root = "."
	}
	return &Manager{root: filepath.Clean(root)}
}

// Abs resolves path against the root unless it is already absolute
func (m *Manager) Abs(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(m.root, path)
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	abs := m.Abs(path)
	zerolog.Ctx(ctx).Trace().Str("path", abs).Msg("reading file")

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, &AccessError{Op: "read", Path: abs, Err: err}
	}
	return content, nil
}

// WriteFile truncates and rewrites the file in place. A failure midway can
// leave the file truncated.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	abs := m.Abs(path)
	zerolog.Ctx(ctx).Trace().Str("path", abs).Int("bytes", len(content)).Msg("writing file in place")

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return &AccessError{Op: "write", Path: abs, Err: err}
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return &AccessError{Op: "write", Path: abs, Err: err}
	}

	if err := f.Close(); err != nil {
		return &AccessError{Op: "write", Path: abs, Err: err}
	}
	return nil
}

// WriteFileAtomic writes to a temp file next to the target and renames it over
// the target, keeping the target's permissions. A symlinked target is written
// through: the link stays and the file it points to is replaced.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	abs := m.Abs(path)
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &AccessError{Op: "stat", Path: abs, Err: err}
	}
	zerolog.Ctx(ctx).Trace().Str("path", abs).Int("bytes", len(content)).Msg("writing file atomically")

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &AccessError{Op: "stat", Path: abs, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return &AccessError{Op: "write", Path: abs, Err: err}
	}
	tmpPath := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &AccessError{Op: "write", Path: abs, Err: err}
	}

	if _, err := tmp.Write(content); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &AccessError{Op: "write", Path: abs, Err: err}
	}

	if err := os.Rename(tmpPath, abs); err != nil {
		os.Remove(tmpPath)
		return &AccessError{Op: "write", Path: abs, Err: err}
	}

	return nil
}

// FileExists reports whether path names an existing file. Directories do not
// count.
func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	abs := m.Abs(path)
	info, err := os.Stat(abs)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &AccessError{Op: "stat", Path: abs, Err: err}
}

// BackupFile copies the file to path+BackupSuffix and returns the backup path
func (m *Manager) BackupFile(ctx context.Context, path string) (string, error) {
	abs := m.Abs(path)
	backup := abs + BackupSuffix

	if err := copyFile(abs, backup); err != nil {
		return "", &AccessError{Op: "backup", Path: abs, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Str("backup", backup).Msg("backed up file")
	return backup, nil
}

// RestoreFile puts the backup back in place and removes it
func (m *Manager) RestoreFile(ctx context.Context, path string) error {
	abs := m.Abs(path)
	backup := abs + BackupSuffix

	if err := copyFile(backup, abs); err != nil {
		return &AccessError{Op: "restore", Path: abs, Err: err}
	}

	if err := os.Remove(backup); err != nil {
		return &AccessError{Op: "restore", Path: backup, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Msg("restored file from backup")
	return nil
}

// 🔍 Glob expands a doublestar pattern relative to the root. Paths without glob
// meta characters are returned unchanged whether or not they exist. An existing
// file whose name contains meta characters, like a Next.js "[id]" route, is
// returned as is instead of being expanded.
func (m *Manager) Glob(ctx context.Context, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !HasMeta(pattern) {
		return []string{pattern}, nil
	}

	literal, err := m.FileExists(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if literal {
		zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Msg("pattern names an existing file, not expanding")
		return []string{pattern}, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern %q", pattern)
	}

	base, rel := m.root, pattern
	prefix := ""
	if filepath.IsAbs(filepath.FromSlash(pattern)) {
		var b string
		b, rel = doublestar.SplitPattern(pattern)
		base = filepath.FromSlash(b)
		prefix = b
	}

	matches, err := doublestar.Glob(os.DirFS(base), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("globbing %q: %w", pattern, err)
	}

	if prefix != "" {
		for i, match := range matches {
			matches[i] = strings.TrimSuffix(prefix, "/") + "/" + match
		}
	}

	sort.Strings(matches)
	zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Strs("matches", matches).Msg("expanded glob")
	return matches, nil
}

// HasMeta reports whether the pattern contains glob meta characters
func HasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("stat source file: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}

	return destination.Close()
}
