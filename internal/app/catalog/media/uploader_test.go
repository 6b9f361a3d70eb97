package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/platform/objectstore"
)

func TestUploader_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps order and passes stored urls through", func(t *testing.T) {
		store := objectstore.NewMemoryStore()
		u := NewUploader(store, nil)

		images := []domain.ImageRef{
			domain.NewUpload([]byte("one"), "image/png", "1.png"),
			domain.StoredURL("memory://catalog/old.png"),
			domain.NewUpload([]byte("three"), "image/jpeg", "3.jpg"),
		}
		urls, err := u.Resolve(ctx, "catalog/products/1/colors/2", images)
		require.NoError(t, err)
		require.Len(t, urls, 3)
		assert.True(t, strings.HasSuffix(urls[0], ".png"))
		assert.Equal(t, "memory://catalog/old.png", urls[1])
		assert.True(t, strings.HasSuffix(urls[2], ".jpg"))
		assert.Equal(t, 2, store.Puts())
	})

	t.Run("upload failure is an UploadError", func(t *testing.T) {
		store := objectstore.NewMemoryStore()
		boom := errors.New("bucket unavailable")
		store.FailPut(boom)
		u := NewUploader(store, nil)

		_, err := u.Resolve(ctx, "catalog/products/1/colors/2", []domain.ImageRef{
			domain.NewUpload([]byte("one"), "image/png", "1.png"),
		})
		var uploadErr *domain.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "put", uploadErr.Op)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("content type is sniffed when missing", func(t *testing.T) {
		store := objectstore.NewMemoryStore()
		u := NewUploader(store, nil)
		pngHeader := []byte("\x89PNG\r\n\x1a\n0000")
		url, err := u.Put(ctx, "catalog/tags", &domain.Upload{Data: pngHeader})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(url, ".png"))
	})
}

func TestUploader_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore()
	u := NewUploader(store, nil)

	a, err := store.Put(ctx, []byte("a"), "image/png", "catalog")
	require.NoError(t, err)
	b, err := store.Put(ctx, []byte("b"), "image/png", "catalog")
	require.NoError(t, err)

	require.NoError(t, u.DeleteAll(ctx, []string{a}))
	assert.False(t, store.Has(a))

	store.FailDelete(errors.New("denied"))
	err = u.DeleteAll(ctx, []string{b})
	var uploadErr *domain.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "delete", uploadErr.Op)
	assert.Equal(t, b, uploadErr.Target)
	assert.True(t, store.Has(b))
}
