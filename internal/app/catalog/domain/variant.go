package domain

import "strings"

// Variant is a stored product variant.
type Variant struct {
	ID        int64
	ProductID int64
	ColorID   *int64
	SizeID    *int64
	Images    []string
	Quantity  int64
}

// Upload is image content the caller submitted as a file.
type Upload struct {
	Data        []byte
	ContentType string
	FileName    string
}

// ImageRef is one image of a variant: either an already stored URL, which is
// kept as is, or new content to upload.
type ImageRef struct {
	URL    string
	Upload *Upload
}

// StoredURL wraps an existing image URL.
func StoredURL(url string) ImageRef {
	return ImageRef{URL: url}
}

// NewUpload wraps file content.
func NewUpload(data []byte, contentType, fileName string) ImageRef {
	return ImageRef{Upload: &Upload{Data: data, ContentType: contentType, FileName: fileName}}
}

// IsUpload reports whether the image still needs uploading.
func (r ImageRef) IsUpload() bool {
	return r.Upload != nil
}

func (r ImageRef) usable() bool {
	if r.Upload != nil {
		return len(r.Upload.Data) > 0
	}
	return strings.TrimSpace(r.URL) != ""
}
