// Package objectstore stores binary media and hands back stable URLs.
package objectstore

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	errEmptyObject    = errors.New("objectstore: object data is empty")
	errContentType    = errors.New("objectstore: content type is required")
	errForeignURL     = errors.New("objectstore: url does not belong to this store")
	errInvalidFolder  = errors.New("objectstore: folder is required")
	errBucketRequired = errors.New("objectstore: bucket is required")
	errClientRequired = errors.New("objectstore: client is required")
)

// Store is the object-store client consumed by the catalog.
type Store interface {
	// Put stores data under folder and returns the public URL of the object.
	Put(ctx context.Context, data []byte, contentType, folder string) (string, error)

	// Delete removes the object behind url. Deleting a missing object is not an error.
	Delete(ctx context.Context, url string) error
}

// objectName derives a collision-free object name inside folder.
func objectName(folder, contentType string) string {
	return path.Join(strings.Trim(folder, "/"), uuid.New().String()+extensionFor(contentType))
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func validatePut(data []byte, contentType, folder string) error {
	if len(data) == 0 {
		return errEmptyObject
	}
	if strings.TrimSpace(contentType) == "" {
		return errContentType
	}
	if strings.Trim(strings.TrimSpace(folder), "/") == "" {
		return errInvalidFolder
	}
	return nil
}
