package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.hcl", "nested/b.hcl", "nested/c.yaml", "d.txt", "e.hcl.bak")

	got, err := FindFilesByExtension(root, ".hcl", ".yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "nested/b.hcl"),
		filepath.Join(root, "nested/c.yaml"),
	}, got)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "dir/a.hcl", "dir/b.yml", "single.hcl", "single.txt")

	got, err := CollectFiles([]string{
		filepath.Join(root, "dir"),
		filepath.Join(root, "single.hcl"),
		filepath.Join(root, "single.txt"),
		filepath.Join(root, "dir", "a.hcl"), // already found through dir
		filepath.Join(root, "missing"),
	}, ".hcl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "dir", "a.hcl"),
		filepath.Join(root, "single.hcl"),
	}, got)
}
