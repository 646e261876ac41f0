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

package log

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/status"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFile(context.Background(), status.FileInfo{
					Path:         "page.tsx",
					Status:       status.StatusModified,
					Rules:        []string{"remove-train-lookup"},
					Replacements: 1,
					Written:      true,
				})
			},
			wantLogs: []string{
				"✓ page.tsx                            modified   1 replacements",
			},
		},
		{
			name: "start_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Root:  "/tmp/repo",
					Rules: []string{"a", "b"},
					Files: 2,
				})
			},
			wantLogs: []string{
				"[patching /tmp/repo]",
				"◆ a, b • apply",
			},
		},
		{
			name: "start_dry_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartRun(context.Background(), RunOperation{
					Root:   ".",
					Rules:  []string{"remove-train-lookup"},
					DryRun: true,
				})
				logger.EndRun(context.Background())
				logger.EndRun(context.Background())
			},
			wantLogs: []string{
				"[patching .]",
				"◆ remove-train-lookup • dry run",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying patch rules")
			},
			wantLogs: []string{
				"patchrc • applying patch rules",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestFileFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		info status.FileInfo
		want string
	}{
		{
			name: "unchanged",
			info: status.FileInfo{Path: "a.tsx", Status: status.StatusUnchanged},
			want: "    • a.tsx                               unchanged  ",
		},
		{
			name: "skipped",
			info: status.FileInfo{Path: "a.tsx", Status: status.StatusSkipped, Replacements: 2},
			want: "    - a.tsx                               skipped    2 replacements",
		},
		{
			name: "failed",
			info: status.FileInfo{Path: "a.tsx", Status: status.StatusFailed, Error: errors.New("read a.tsx: denied")},
			want: "    ✗ a.tsx                               failed     read a.tsx: denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(io.Discard, zerolog.Nop())
			assert.Equal(t, tt.want, logger.formatFile(tt.info))
		})
	}
}

func TestUserLogger(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	buf := &bytes.Buffer{}
	ctx := zerolog.New(buf).Level(zerolog.DebugLevel).WithContext(context.Background())
	u := NewUserLogger(ctx)

	u.LogValidation(true, "rules valid", nil)
	u.LogValidation(false, "command failed", errors.New("read page.tsx: no such file"))
	u.LogValidation(false, "nothing matched", nil)
	u.LogStateChange("patching 1 file")
	u.LogDiff("page.tsx", "@@ -1,2 +1,1 @@\n-old\n+new\n")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], `"level":"info"`)
	assert.Contains(t, lines[0], "rules valid")
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], "no such file")
	assert.Contains(t, lines[2], `"level":"warn"`)
	assert.Contains(t, lines[3], "patching 1 file")
	assert.Contains(t, lines[4], `"path":"page.tsx"`)
}
