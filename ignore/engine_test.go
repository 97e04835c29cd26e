package ignore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/assert"

	"github.com/viant/codegraph/ignore"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGitignoreScoping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "secret.txt\n")
	writeFile(t, filepath.Join(root, "app.log"), "x")
	writeFile(t, filepath.Join(root, "sub", "secret.txt"), "x")
	writeFile(t, filepath.Join(root, "keep.txt"), "x")

	engine, err := ignore.New(root, true)
	require.NoError(t, err)

	assert.True(t, engine.ShouldSkip(filepath.Join(root, "app.log"), 1))
	assert.True(t, engine.ShouldSkip(filepath.Join(root, "sub", "secret.txt"), 1))
	assert.False(t, engine.ShouldSkip(filepath.Join(root, "keep.txt"), 1))

	// A nested .gitignore's patterns do not apply outside its own
	// subtree.
	writeFile(t, filepath.Join(root, "secret.txt"), "x")
	assert.False(t, engine.ShouldSkip(filepath.Join(root, "secret.txt"), 1))
}

func TestDenyListPrunesDirectories(t *testing.T) {
	root := t.TempDir()
	engine, err := ignore.New(root, false)
	require.NoError(t, err)

	assert.True(t, engine.ShouldSkipDir(".git"))
	assert.True(t, engine.ShouldSkipDir("node_modules"))
	assert.False(t, engine.ShouldSkipDir("src"))
}

func TestMaxFileSize(t *testing.T) {
	root := t.TempDir()
	engine, err := ignore.New(root, false, ignore.WithMaxFileSizeMiB(0.000001))
	require.NoError(t, err)

	assert.True(t, engine.ShouldSkip(filepath.Join(root, "big.txt"), 10000))
	assert.False(t, engine.ShouldSkip(filepath.Join(root, "tiny.txt"), 1))
}
