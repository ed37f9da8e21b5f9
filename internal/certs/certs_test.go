package certs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"JohnDoe.pdf", "Jane.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	pool, err := Scan(dir)
	require.NoError(t, err)

	require.Len(t, pool, 2, "only PDF files, no directories")
	names := []string{pool[0].Filename, pool[1].Filename}
	assert.ElementsMatch(t, []string{"JohnDoe.pdf", "Jane.PDF"}, names)
	for _, c := range pool {
		assert.Equal(t, filepath.Join(dir, c.Filename), c.Ref)
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScanEmptyDir(t *testing.T) {
	pool, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, pool)
}
