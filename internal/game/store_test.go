package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreDefaultsWhenMissing(t *testing.T) {
	fs := NewFileStoreAt(filepath.Join(t.TempDir(), "nope", "save"))
	assert.Equal(t, 0.0, fs.LoadBest())
	assert.False(t, fs.LoadContrast())
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caravan", "save")
	fs := NewFileStoreAt(path)

	fs.SaveBest(1234.5)
	fs.SaveContrast(true)

	// Reopen to prove the values actually hit the disk.
	again := NewFileStoreAt(path)
	assert.Equal(t, 1234.5, again.LoadBest())
	assert.True(t, again.LoadContrast())

	// Saving one key must not drop the other.
	again.SaveBest(9000)
	assert.True(t, NewFileStoreAt(path).LoadContrast())
	assert.Equal(t, 9000.0, NewFileStoreAt(path).LoadBest())
}

func TestFileStoreRejectsCorruptValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save")
	require.NoError(t, os.WriteFile(path, []byte("best=not-a-number\ncontrast=maybe\n"), 0o644))

	fs := NewFileStoreAt(path)
	assert.Equal(t, 0.0, fs.LoadBest())
	assert.False(t, fs.LoadContrast())
}

func TestFileStoreIgnoresNegativeBest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save")
	require.NoError(t, os.WriteFile(path, []byte("best=-50\n"), 0o644))
	assert.Equal(t, 0.0, NewFileStoreAt(path).LoadBest())
}
