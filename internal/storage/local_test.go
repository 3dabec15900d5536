package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage_SaveAndGet(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/api/v1/files"})
	assert.NoError(t, err)

	ctx := context.Background()
	payload := []byte("image bytes")

	err = store.Save(ctx, "photos/user-1/abc.jpg", bytes.NewReader(payload), "image/jpeg")
	assert.NoError(t, err)

	exists, err := store.Exists(ctx, "photos/user-1/abc.jpg")
	assert.NoError(t, err)
	assert.True(t, exists)

	reader, err := store.Get(ctx, "photos/user-1/abc.jpg")
	assert.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, payload, data)

	size, err := store.GetSize(ctx, "photos/user-1/abc.jpg")
	assert.NoError(t, err)
	assert.Equal(t, int64(len(payload)), size)

	url, err := store.GetURL(ctx, "photos/user-1/abc.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "/api/v1/files/photos/user-1/abc.jpg", url)
}

func TestLocalStorage_Delete(t *testing.T) {
	t.Parallel()

	store, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	assert.NoError(t, err)

	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, "photos/x.png", bytes.NewReader([]byte{1, 2, 3}), "image/png"))
	assert.NoError(t, store.Delete(ctx, "photos/x.png"))

	exists, err := store.Exists(ctx, "photos/x.png")
	assert.NoError(t, err)
	assert.False(t, exists)

	// Повторное удаление не является ошибкой
	assert.NoError(t, store.Delete(ctx, "photos/x.png"))
}
