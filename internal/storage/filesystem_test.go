package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueImageKeyFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^gen_\d+_[0-9a-f]{16}\.png$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key := UniqueImageKey()
		assert.Regexp(t, pattern, key)
		_, dup := seen[key]
		assert.False(t, dup, "key %q generated twice", key)
		seen[key] = struct{}{}
	}
}

func TestFileStoreWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	key, err := store.Write(context.Background(), "gen_1_abcd.png", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "gen_1_abcd.png", key)

	data, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), data)
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.png", "..", "/../../etc/passwd"} {
		_, err := store.Write(context.Background(), key, []byte("x"))
		assert.Error(t, err, "key %q should be rejected", key)
	}
}

func TestNewFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("  ")
	require.Error(t, err)
}
