package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageKey(t *testing.T) {
	assert.Equal(t, "images/u1/i1/front.jpg", ImageKey("u1", "i1", "front.jpg"))
}

func TestLocalPut(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blobs")
	s, err := NewLocal(root, "http://cdn.local/files/")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	key := ImageKey("u1", "i1", "front.jpg")
	url, err := s.Put(ctx, key, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/files/images/u1/i1/front.jpg", url)

	b, err := os.ReadFile(filepath.Join(root, "images", "u1", "i1", "front.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(b))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenByURL(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), "file://"+filepath.ToSlash(root), "/files")
	require.NoError(t, err)
	defer s.Close()

	url, err := s.Put(context.Background(), "images/u/i/a.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/files/images/u/i/a.jpg", url)
	_, err = os.Stat(filepath.Join(root, "images", "u", "i", "a.jpg"))
	assert.NoError(t, err)
}

func TestLocalRejectsTraversal(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "/files")
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Put(context.Background(), "../escape.jpg", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = s.Put(context.Background(), "", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
