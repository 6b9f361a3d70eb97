package objectstore

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	url, err := store.Put(ctx, []byte("png-bytes"), "image/png", "catalog/tags")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, MemoryScheme+"catalog/tags/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.True(t, store.Has(url))

	require.NoError(t, store.Delete(ctx, url))
	assert.False(t, store.Has(url))
	// missing objects delete cleanly
	require.NoError(t, store.Delete(ctx, url))
	assert.Equal(t, []string{url, url}, store.Deleted())
}

func TestMemoryStore_Validation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	tests := []struct {
		name        string
		data        []byte
		contentType string
		folder      string
	}{
		{"empty data", nil, "image/png", "catalog"},
		{"missing content type", []byte("x"), " ", "catalog"},
		{"missing folder", []byte("x"), "image/png", "/"},
		{"traversal", []byte("x"), "image/png", "catalog/../secrets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Put(ctx, tt.data, tt.contentType, tt.folder)
			assert.Error(t, err)
		})
	}

	assert.ErrorIs(t, store.Delete(ctx, "https://elsewhere/x.png"), errForeignURL)
}

func TestMemoryStore_Faults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("quota exceeded")

	store.FailPut(boom)
	_, err := store.Put(ctx, []byte("x"), "image/jpeg", "catalog")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, store.Puts())

	store.FailPut(nil)
	url, err := store.Put(ctx, []byte("x"), "image/jpeg", "catalog")
	require.NoError(t, err)

	store.FailDelete(boom)
	assert.ErrorIs(t, store.Delete(ctx, url), boom)
	assert.True(t, store.Has(url))
}

func TestMemoryStore_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Put(ctx, []byte("x"), "image/webp", "catalog/products/1/colors/2")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}

func TestBuildFolder(t *testing.T) {
	folder, err := BuildFolder(PurposeVariantImage, FolderParams{ProductID: 12, ColorID: 3})
	require.NoError(t, err)
	assert.Equal(t, "catalog/products/12/colors/3", folder)

	_, err = BuildFolder(PurposeVariantImage, FolderParams{ProductID: 12})
	assert.Error(t, err)

	folder, err = BuildFolder(PurposeBrandLogo, FolderParams{})
	require.NoError(t, err)
	assert.Equal(t, "catalog/brands", folder)

	_, err = BuildFolder(Purpose("unknown"), FolderParams{})
	assert.Error(t, err)
}

func TestGCSStore_ObjectForURL(t *testing.T) {
	s := &GCSStore{bucket: "media", baseURL: defaultPublicHost + "/media"}

	name, err := s.objectFor(s.urlFor("catalog/tags/a.png"))
	require.NoError(t, err)
	assert.Equal(t, "catalog/tags/a.png", name)

	_, err = s.objectFor("https://cdn.example.com/catalog/tags/a.png")
	assert.ErrorIs(t, err, errForeignURL)

	WithPublicBaseURL("https://cdn.example.com/")(s)
	name, err = s.objectFor("https://cdn.example.com/catalog/tags/a.png")
	require.NoError(t, err)
	assert.Equal(t, "catalog/tags/a.png", name)
}

func TestNewGCSStore_Validation(t *testing.T) {
	_, err := NewGCSStore(nil, "media")
	assert.ErrorIs(t, err, errClientRequired)
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".png", extensionFor("image/png; charset=binary"))
	assert.Equal(t, "", extensionFor("not a type"))
}
