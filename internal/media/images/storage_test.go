package images

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *LocalStorage {
	t.Helper()

	storage, err := NewLocalStorage(t.TempDir(), "/images")
	require.NoError(t, err)
	return storage
}

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		storage := setupTestStorage(t)
		assert.NotNil(t, storage)
	})

	t.Run("rejects empty path", func(t *testing.T) {
		_, err := NewLocalStorage("", "/images")
		assert.Error(t, err)
	})
}

func TestLocalStorage_SaveAndGet(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	data := []byte("fake image bytes")
	require.NoError(t, storage.Save(ctx, "img_abc.jpg", data, "image/jpeg"))

	got, err := storage.Get(ctx, "img_abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStorage_Save_Validation(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	assert.Error(t, storage.Save(ctx, "", []byte("data"), "image/jpeg"))
	assert.Error(t, storage.Save(ctx, "img_abc.jpg", nil, "image/jpeg"))
}

func TestLocalStorage_Get_NotFound(t *testing.T) {
	storage := setupTestStorage(t)

	_, err := storage.Get(context.Background(), "img_missing.jpg")
	assert.Error(t, err)
}

func TestLocalStorage_Exists(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	assert.False(t, storage.Exists(ctx, "img_abc.jpg"))

	require.NoError(t, storage.Save(ctx, "img_abc.jpg", []byte("data"), "image/jpeg"))
	assert.True(t, storage.Exists(ctx, "img_abc.jpg"))
}

func TestLocalStorage_Delete(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "img_abc.jpg", []byte("data"), "image/jpeg"))
	require.NoError(t, storage.Delete(ctx, "img_abc.jpg"))
	assert.False(t, storage.Exists(ctx, "img_abc.jpg"))

	// Deleting again is a no-op.
	assert.NoError(t, storage.Delete(ctx, "img_abc.jpg"))
}

func TestLocalStorage_RejectsTraversalKeys(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	keys := []string{
		"../escape.jpg",
		"nested/img.jpg",
		"..",
		".",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			assert.Error(t, storage.Save(ctx, key, []byte("data"), "image/jpeg"))
			_, err := storage.Get(ctx, key)
			assert.Error(t, err)
			assert.False(t, storage.Exists(ctx, key))
		})
	}
}

func TestLocalStorage_Hash(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, "img_abc.jpg", []byte("data"), "image/jpeg"))

	hash, err := storage.Hash(ctx, "img_abc.jpg")
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	// Same content, same hash.
	again, err := storage.Hash(ctx, "img_abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestLocalStorage_URL(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir(), "/images/")
	require.NoError(t, err)

	// Trailing slash on the base is normalized.
	assert.Equal(t, "/images/img_abc.jpg", storage.URL("img_abc.jpg"))
}
