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

// Package status describes what happened to a patched file and formats it.
package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📊 FileStatus represents what a patch run did to a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // No rule changed the content
	StatusModified             // Content changed
	StatusSkipped              // Nothing written (dry run or unchanged with skip)
	StatusFailed               // An error stopped the file
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo is the outcome for a single file
type FileInfo struct {
	Path         string     // Path as written in the rule
	Status       FileStatus // Outcome
	Rules        []string   // Rules applied, in order
	Replacements int        // Number of matches replaced
	Written      bool       // Whether the file was rewritten
	Error        error      // Any error associated with this file
}

// 📈 Reporter tracks per-file outcomes and progress
type Reporter struct {
	formatter Formatter

	mu        sync.Mutex
	files     []FileInfo
	total     int
	processed int
}

// 🏭 NewReporter creates a reporter using the given formatter
func NewReporter(formatter Formatter) *Reporter {
	if formatter == nil {
		formatter = NewDefaultFormatter()
	}
	return &Reporter{formatter: formatter}
}

// StartOperation resets progress for a run over total files
func (r *Reporter) StartOperation(ctx context.Context, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total = total
	r.processed = 0
	r.files = nil
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(r.formatter.FormatProgress(0, total))
}

// TrackFile records a file outcome and advances progress
func (r *Reporter) TrackFile(ctx context.Context, info FileInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, info)
	r.processed++

	zerolog.Ctx(ctx).Debug().
		Str("path", info.Path).
		Str("status", info.Status.String()).
		Int("processed", r.processed).
		Int("total", r.total).
		Msg(r.formatter.FormatProgress(r.processed, r.total))
}

// Files returns the tracked outcomes in the order they were recorded
func (r *Reporter) Files() []FileInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]FileInfo, len(r.files))
	copy(out, r.files)
	return out
}

// Counts returns the number of files per status
func (r *Reporter) Counts() map[FileStatus]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[FileStatus]int)
	for _, f := range r.files {
		counts[f.Status]++
	}
	return counts
}
