package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitProject(t *testing.T) {
	fs = afero.NewMemMapFs()
	root := "/projects/song"

	require.NoError(t, InitProject(root))

	isDir, err := afero.IsDir(fs, filepath.Join(root, MetadataDir))
	require.NoError(t, err)
	assert.True(t, isDir)

	contents, err := afero.ReadFile(fs, filepath.Join(root, IgnoreFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultIgnoreTemplate, string(contents))
}

func TestInitProjectKeepsExistingIgnoreFile(t *testing.T) {
	fs = afero.NewMemMapFs()
	root := "/projects/song"
	ignorePath := filepath.Join(root, IgnoreFile)
	require.NoError(t, afero.WriteFile(fs, ignorePath, []byte("stems/\n"), 0644))

	require.NoError(t, InitProject(root))
	require.NoError(t, InitProject(root))

	contents, err := afero.ReadFile(fs, ignorePath)
	require.NoError(t, err)
	assert.Equal(t, "stems/\n", string(contents))
}
