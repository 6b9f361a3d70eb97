package objectstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Purpose captures what a stored object is used for.
type Purpose string

const (
	PurposeVariantImage Purpose = "variant-image"
	PurposeTagMedia     Purpose = "tag-media"
	PurposeBrandLogo    Purpose = "brand-logo"
)

// FolderParams carry the identifiers a folder layout may need.
type FolderParams struct {
	ProductID int64
	ColorID   int64
}

// BuildFolder resolves the folder hint for a purpose.
func BuildFolder(purpose Purpose, params FolderParams) (string, error) {
	switch purpose {
	case PurposeVariantImage:
		productID, err := validateID("productID", params.ProductID)
		if err != nil {
			return "", err
		}
		colorID, err := validateID("colorID", params.ColorID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("catalog/products/%s/colors/%s", productID, colorID), nil
	case PurposeTagMedia:
		return "catalog/tags", nil
	case PurposeBrandLogo:
		return "catalog/brands", nil
	default:
		return "", fmt.Errorf("objectstore: unsupported purpose %q", purpose)
	}
}

func validateID(name string, id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("objectstore: %s must be positive", name)
	}
	return strconv.FormatInt(id, 10), nil
}

func validateSegment(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("objectstore: %s is required", name)
	}
	if strings.ContainsAny(value, "\\") {
		return "", fmt.Errorf("objectstore: %s contains invalid path characters", name)
	}
	if strings.Contains(value, "..") {
		return "", fmt.Errorf("objectstore: %s contains invalid traversal sequence", name)
	}
	return value, nil
}
