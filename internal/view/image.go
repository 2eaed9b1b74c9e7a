package view

import (
	"net/url"
	"strings"

	"stridecart/internal/domain"
)

// ImageURL resolves a stored image path against base. Paths that already
// carry a scheme are returned unchanged; otherwise exactly one slash joins
// base and path. An empty path yields "" and the page shows its placeholder.
func ImageURL(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// PrimaryImage resolves the first image of p, or "".
func PrimaryImage(base string, p domain.Product) string {
	if len(p.Images) == 0 {
		return ""
	}
	return ImageURL(base, p.Images[0])
}
