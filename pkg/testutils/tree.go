// Package testutils holds helpers shared by patchrc tests.
package testutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// WriteTree creates a temp directory holding the given slash-separated files
// and returns its path
func WriteTree(t testing.TB, tree map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range tree {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "creating dir for %s", name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644), "writing %s", name)
	}
	return root
}

// ReadTree returns the content of a slash-separated file under root
func ReadTree(t testing.TB, root, name string) string {
	t.Helper()

	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err, "reading %s", name)
	return string(b)
}

// Context returns a context carrying a debug logger that writes to the test log
func Context(t testing.TB) context.Context {
	t.Helper()

	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}
