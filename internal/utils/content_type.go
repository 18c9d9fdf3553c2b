package utils

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultContentType = "application/octet-stream"

// ExtensionFor infers a file extension (without the dot) from a content type.
// Known types use their canonical extension, unknown ones fall back to the
// MIME subtype, and anything unusable becomes "bin".
func ExtensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType == "" {
		return "bin"
	}

	if m := mimetype.Lookup(mediaType); m != nil && m.Extension() != "" {
		return strings.TrimPrefix(m.Extension(), ".")
	}

	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok || sub == "" || sub == "*" {
		return "bin"
	}
	// image/svg+xml -> svg
	sub, _, _ = strings.Cut(sub, "+")
	return sub
}

// DetectContentType trusts a declared type unless it is missing or generic, in
// which case the leading bytes are sniffed.
func DetectContentType(declared string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != DefaultContentType {
		return declared
	}
	if len(head) == 0 {
		return DefaultContentType
	}
	return mimetype.Detect(head).String()
}
