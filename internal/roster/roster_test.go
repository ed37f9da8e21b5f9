package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	recipients, skipped, err := Load(writeRoster(t, "John Doe,john@example.org\nJane Smith,jane@example.org\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, skipped)
	require.Len(t, recipients, 2)
	assert.Equal(t, Recipient{Name: "John Doe", Email: "john@example.org"}, recipients[0])
	assert.Equal(t, Recipient{Name: "Jane Smith", Email: "jane@example.org"}, recipients[1])
}

func TestLoadHeaderSkipped(t *testing.T) {
	recipients, _, err := Load(writeRoster(t, "Name,Email\nJohn Doe,john@example.org\n"))
	require.NoError(t, err)

	require.Len(t, recipients, 1)
	assert.Equal(t, "John Doe", recipients[0].Name)
}

func TestLoadBOMStripped(t *testing.T) {
	recipients, _, err := Load(writeRoster(t, "\uFEFF"+"John Doe,john@example.org\n"))
	require.NoError(t, err)

	require.Len(t, recipients, 1)
	assert.Equal(t, "John Doe", recipients[0].Name)
}

func TestLoadBlankRowsCounted(t *testing.T) {
	recipients, skipped, err := Load(writeRoster(t, "John Doe,john@example.org\n\" \",\nJane Smith,\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, recipients, 2)
	assert.Empty(t, recipients[1].Email, "missing email is allowed at load time")
}

func TestLoadNameOnlyColumn(t *testing.T) {
	recipients, _, err := Load(writeRoster(t, "John Doe\nJane Smith\n"))
	require.NoError(t, err)

	require.Len(t, recipients, 2)
	assert.Empty(t, recipients[0].Email)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
