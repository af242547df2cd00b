package util

import (
	"net/http"
	"strings"
)

// DefaultImageMIME is used when a caller did not declare a media type.
const DefaultImageMIME = "image/png"

// SniffMimeHTTP guesses an image media type from magic bytes.
func SniffMimeHTTP(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFF && b[1] == 0xD8 {
		return "image/jpeg"
	}
	if len(b) >= 8 &&
		b[0] == 0x89 && b[1] == 0x50 && b[2] == 0x4E && b[3] == 0x47 &&
		b[4] == 0x0D && b[5] == 0x0A && b[6] == 0x1A && b[7] == 0x0A {
		return "image/png"
	}
	if len(b) > 0 {
		return http.DetectContentType(b)
	}
	return "application/octet-stream"
}

// IsImageMIME reports whether a declared media type names an image.
func IsImageMIME(m string) bool {
	return strings.HasPrefix(strings.TrimSpace(m), "image/")
}

func MakeDataURL(mime, b64 string) string {
	return "data:" + mime + ";base64," + b64
}

// PickMIME берём явный MIME, иначе DefaultImageMIME.
func PickMIME(explicit string) string {
	if exp := strings.TrimSpace(explicit); exp != "" {
		return exp
	}
	return DefaultImageMIME
}
