package status

import (
	"fmt"
	"strings"
)

// Formatter defines how file outcomes and progress are rendered
type Formatter interface {
	// FormatFile formats a single file outcome
	FormatFile(info FileInfo) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter renders plain text with emojis
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

func (f *DefaultFormatter) FormatFile(info FileInfo) string {
	rules := strings.Join(info.Rules, ", ")
	switch info.Status {
	case StatusModified:
		return fmt.Sprintf("📝 Patched %s (%d replacements: %s)", info.Path, info.Replacements, rules)
	case StatusSkipped:
		if info.Replacements > 0 {
			return fmt.Sprintf("⏭️  Would patch %s (%d replacements: %s)", info.Path, info.Replacements, rules)
		}
		return fmt.Sprintf("⏭️  Skipped %s", info.Path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s: %v", info.Path, info.Error)
	default:
		return fmt.Sprintf("👍 Unchanged %s", info.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
