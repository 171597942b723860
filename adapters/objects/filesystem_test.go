package objects

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

func TestFileSystemStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileSystemStore(dir, "http://localhost:9000/media/")
	require.NoError(t, err)

	key := "avatars/0xabc-1700000000000.png"
	require.NoError(t, s.Put(ctx, key, []byte("png-bytes"), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "0xabc-1700000000000.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	t.Run("no overwrite", func(t *testing.T) {
		assert.ErrorIs(t, s.Put(ctx, key, []byte("other"), "image/png"), core.ErrObjectExists)
	})

	t.Run("public url round trip", func(t *testing.T) {
		u := s.PublicURL(key)
		assert.Equal(t, "http://localhost:9000/media/avatars/0xabc-1700000000000.png", u)
		got, err := s.KeyFromURL(u)
		require.NoError(t, err)
		assert.Equal(t, key, got)
	})

	t.Run("invalid keys", func(t *testing.T) {
		for _, k := range []string{"", "../escape.png", "avatars/../../x", "/abs.png"} {
			assert.ErrorIs(t, s.Put(ctx, k, nil, ""), ErrInvalidKey, k)
		}
		_, err := s.KeyFromURL("http://localhost/file.png")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, key))
		require.NoError(t, s.Delete(ctx, key))
		_, err := os.Stat(filepath.Join(dir, "avatars", "0xabc-1700000000000.png"))
		assert.True(t, os.IsNotExist(err))
	})
}
