package tour

import "strings"

// UploadPathPrefix is the relative path convention the upload collaborator
// uses for stored panorama images.
const UploadPathPrefix = "/uploads/"

// ResolveImageURL resolves a scene image reference to an absolute URL.
// References already carrying a scheme pass through unchanged; server-relative
// references (the upload-path convention) are joined to the configured base
// address. The same resolution is applied everywhere an image URL is
// consumed so viewer, editor and embed never disagree on the final address.
//
// Parameters:
//   - baseURL: the API/media base address, with or without a trailing slash
//   - ref: the stored image reference
//
// Returns:
//   - string: the absolute image URL
func ResolveImageURL(baseURL, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return strings.TrimRight(baseURL, "/") + ref
	}
	return strings.TrimRight(baseURL, "/") + "/" + ref
}
