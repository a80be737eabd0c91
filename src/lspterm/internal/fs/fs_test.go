package fs

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp")
	fs := New()
	dir, err := fs.UserConfigDir()
	assert.NoError(t, err)
	assert.NotEmpty(t, dir)
}

func TestMkdirAll(t *testing.T) {
	dir := t.TempDir()
	fs := New()
	err := fs.MkdirAll(path.Join(dir, "foo/bar"))
	assert.NoError(t, err)
}

func TestDirExists(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		dir := t.TempDir()
		fs := New()
		result, err := fs.DirExists(dir)
		assert.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("does not exist", func(t *testing.T) {
		dir := t.TempDir()
		fs := New()
		result, err := fs.DirExists(dir + "foo")
		assert.NoError(t, err)
		assert.False(t, result)
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := path.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("contents"), 0666))
	fs := New()

	t.Run("exists", func(t *testing.T) {
		result, err := fs.FileExists(filePath)
		assert.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		result, err := fs.FileExists(dir)
		assert.NoError(t, err)
		assert.False(t, result)
	})

	t.Run("does not exist", func(t *testing.T) {
		result, err := fs.FileExists(path.Join(dir, "b.txt"))
		assert.NoError(t, err)
		assert.False(t, result)
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "a")
	require.NoError(t, os.WriteFile(file, []byte("contents"), 0666))

	fs := New()
	data, err := fs.ReadFile(file)
	assert.NoError(t, err)
	assert.Equal(t, "contents", string(data))

	info, err := fs.Stat(file)
	assert.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestReadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "a"), []byte("a"), 0666))
	require.NoError(t, os.Mkdir(path.Join(dir, "b"), 0777))

	fs := New()
	entries, err := fs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
