// Package media moves catalog images between request payloads and the
// object store.
package media

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/procat-admin/internal/app/catalog/domain"
	"github.com/light-bringer/procat-admin/internal/platform/objectstore"
)

// Uploader stores and removes images.
type Uploader struct {
	store  objectstore.Store
	logger *zap.Logger
}

// NewUploader creates a new Uploader.
func NewUploader(store objectstore.Store, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{store: store, logger: logger}
}

// Resolve returns the URLs of images in order. Stored URLs pass through;
// uploads run concurrently and are all awaited before returning. Objects
// uploaded before a failure are left in place.
func (u *Uploader) Resolve(ctx context.Context, folder string, images []domain.ImageRef) ([]string, error) {
	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range images {
		if !img.IsUpload() {
			urls[i] = img.URL
			continue
		}
		i, upload := i, img.Upload
		g.Go(func() error {
			url, err := u.Put(gctx, folder, upload)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// Put stores one upload under folder.
func (u *Uploader) Put(ctx context.Context, folder string, upload *domain.Upload) (string, error) {
	url, err := u.store.Put(ctx, upload.Data, contentTypeOf(upload), folder)
	if err != nil {
		u.logger.Warn("image upload failed",
			zap.String("folder", folder),
			zap.String("file", upload.FileName),
			zap.Error(err),
		)
		return "", &domain.UploadError{Op: "put", Target: folder, Err: err}
	}
	u.logger.Debug("image uploaded", zap.String("url", url), zap.Int("bytes", len(upload.Data)))
	return url, nil
}

// DeleteAll removes urls one by one and stops at the first failure.
func (u *Uploader) DeleteAll(ctx context.Context, urls []string) error {
	for _, url := range urls {
		if err := u.store.Delete(ctx, url); err != nil {
			u.logger.Warn("image delete failed", zap.String("url", url), zap.Error(err))
			return &domain.UploadError{Op: "delete", Target: url, Err: err}
		}
		u.logger.Debug("image deleted", zap.String("url", url))
	}
	return nil
}

func contentTypeOf(upload *domain.Upload) string {
	if ct := strings.TrimSpace(upload.ContentType); ct != "" {
		return ct
	}
	return http.DetectContentType(upload.Data)
}
