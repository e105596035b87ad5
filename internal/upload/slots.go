package upload

import "strings"

// Slot is a named multipart field bound to a maximum file count.
type Slot struct {
	Field    string
	MaxCount int
}

var PropertySlots = []Slot{
	{Field: "heroImg", MaxCount: 1},
	{Field: "gallery", MaxCount: 5},
	{Field: "floorMap", MaxCount: 1},
}

var BlogSlots = []Slot{
	{Field: "coverImg", MaxCount: 1},
}

// IsImageType accepts any image kind, mirroring the upload filter contract.
func IsImageType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Extension derives the stored-object extension from the declared type.
func Extension(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	if idx := strings.Index(contentType, "/"); idx >= 0 {
		return strings.TrimSpace(contentType[idx+1:])
	}
	return "bin"
}
