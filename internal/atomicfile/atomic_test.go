package atomicfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/loam-export/internal/atomicfile"
)

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.csv")

	require.NoError(t, atomicfile.WriteFile(target, []byte("first"), 0644))
	require.NoError(t, atomicfile.WriteFile(target, []byte("second"), 0644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())
}

func TestWriteFile_MissingDir(t *testing.T) {
	err := atomicfile.WriteFile(filepath.Join(t.TempDir(), "nope", "out.zip"), []byte("x"), 0644)
	assert.Error(t, err)
}

func TestIsTemp(t *testing.T) {
	assert.True(t, atomicfile.IsTemp(filepath.Join("a", atomicfile.TempFilePrefix+"123")))
	assert.False(t, atomicfile.IsTemp("a/note.md"))
}
