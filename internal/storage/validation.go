package storage

import (
	"fmt"
	"strings"
)

// allowedCardImageTypes defines the MIME types accepted for card photos.
var allowedCardImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

func validateCardImageType(contentType string) error {
	if _, ok := allowedCardImageTypes[normalizeContentType(contentType)]; !ok {
		return fmt.Errorf("content type %q is not allowed for card images", contentType)
	}
	return nil
}

func extensionFor(contentType string) string {
	if ext, ok := allowedCardImageTypes[normalizeContentType(contentType)]; ok {
		return ext
	}
	return ""
}

// normalizeContentType strips parameters like charset and lowercases the type.
func normalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}
