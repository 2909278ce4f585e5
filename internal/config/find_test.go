package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "core")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	manifest := filepath.Join(root, DefaultFile)
	require.NoError(t, os.WriteFile(manifest, []byte("targets: []\n"), 0o644))

	got, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, manifest, got)

	got, err = Find(root)
	require.NoError(t, err)
	assert.Equal(t, manifest, got)
}

func TestFind_SkipsDirectoryNamedLikeManifest(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "child")
	require.NoError(t, os.MkdirAll(filepath.Join(child, DefaultFile), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultFile), []byte("targets: []\n"), 0o644))

	got, err := Find(child)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultFile), got)
}
