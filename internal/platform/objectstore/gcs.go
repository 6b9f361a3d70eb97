package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
)

const defaultPublicHost = "https://storage.googleapis.com"

// GCSStore implements Store on a Cloud Storage bucket.
type GCSStore struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

// GCSOption customises a GCSStore.
type GCSOption func(*GCSStore)

// WithPublicBaseURL overrides the URL prefix objects are served from,
// e.g. a CDN domain in front of the bucket.
func WithPublicBaseURL(base string) GCSOption {
	return func(s *GCSStore) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			s.baseURL = base
		}
	}
}

// NewGCSStore constructs a GCSStore for bucket.
func NewGCSStore(client *gcs.Client, bucket string, opts ...GCSOption) (*GCSStore, error) {
	if client == nil {
		return nil, errClientRequired
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errBucketRequired
	}
	s := &GCSStore{
		client:  client,
		bucket:  bucket,
		baseURL: defaultPublicHost + "/" + bucket,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Put implements Store.
func (s *GCSStore) Put(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	if err := validatePut(data, contentType, folder); err != nil {
		return "", err
	}
	folder, err := validateSegment("folder", folder)
	if err != nil {
		return "", err
	}

	name := objectName(folder, contentType)
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", name, err)
	}
	return s.urlFor(name), nil
}

// Delete implements Store.
func (s *GCSStore) Delete(ctx context.Context, url string) error {
	name, err := s.objectFor(url)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

func (s *GCSStore) urlFor(name string) string {
	return s.baseURL + "/" + name
}

// objectFor maps a public URL back to its object name.
func (s *GCSStore) objectFor(url string) (string, error) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", errForeignURL
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "..") {
		return "", errForeignURL
	}
	return name, nil
}

var _ Store = (*GCSStore)(nil)
