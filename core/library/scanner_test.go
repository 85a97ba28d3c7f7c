package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "rock/b.mp3")
	writeFile(t, dir, "rock/a.mp3")
	writeFile(t, dir, "classical/sym.FLAC")
	writeFile(t, dir, "podcast/notes.txt")
	writeFile(t, dir, "cover.jpg")

	files, err := Scan(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"classical/sym.FLAC",
		"rock/a.mp3",
		"rock/b.mp3",
	}, files)
}

func TestScanEmptyDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NotNil(t, files)
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestServiceFilesWithoutRedis(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mp3")

	// No Redis client configured: the service degrades to a direct scan.
	svc := NewService(dir, time.Minute)
	files, err := svc.Files(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, files)
}
