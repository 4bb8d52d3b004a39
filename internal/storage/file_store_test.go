package storage

import (
	"errors"
	"os"
	"path/filepath"
	"studymate/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_AtomicWrite_NoTempLeft(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, 0, &testutil.MockCompressor{}, &testutil.MockLogger{})
	require.NoError(t, err)

	require.NoError(t, fs.Set("studymate_stats", []byte(`{}`)))

	_, err = os.Stat(filepath.Join(dir, "studymate_stats"+recordExt))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "studymate_stats"+recordExt+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_RestoreIndexOnOpen(t *testing.T) {
	dir := t.TempDir()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	fs, err := NewFileStore(dir, 100, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, fs.Set("a", []byte("0123456789")))
	require.NoError(t, fs.Set("bb", []byte("abc")))

	reopened, err := NewFileStore(dir, 100, comp, &testutil.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, int64(11+5), reopened.Usage())

	val, ok, err := reopened.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0123456789", string(val))
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k"+recordExt), []byte("garbage"), 0644))

	logger := &testutil.MockLogger{}
	fs, err := NewFileStore(dir, 0, comp, logger)
	require.NoError(t, err)
	assert.Equal(t, 1, logger.Count("warn"))

	_, ok, err := fs.Get("k")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestFileStore_CompressError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("boom") },
	}
	fs, err := NewFileStore(t.TempDir(), 0, comp, &testutil.MockLogger{})
	require.NoError(t, err)

	assert.Error(t, fs.Set("k", []byte("v")))
	assert.Equal(t, int64(0), fs.Usage())
}

func TestFileStore_CloseReleasesCompressor(t *testing.T) {
	comp := &testutil.MockCompressor{}
	fs, err := NewFileStore(t.TempDir(), 0, comp, &testutil.MockLogger{})
	require.NoError(t, err)

	require.NoError(t, fs.Close())
	assert.True(t, comp.Closed)
}
