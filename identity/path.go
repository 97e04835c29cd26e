package identity

import (
	"path/filepath"
	"strings"
)

// ToSlash normalizes a filesystem path to forward slashes, matching the
// convention used for every identifier fragment and exported path.
func ToSlash(p string) string {
	return filepath.ToSlash(p)
}

// PathToURI converts a filesystem-relative path to a file:// URI. The
// path is expected to already be relative to some declared root.
func PathToURI(p string) string {
	p = ToSlash(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "file://" + p
}

// URIToPath strips a file:// scheme and returns the remaining path,
// forward-slash normalized. URIs without the scheme are returned as-is.
func URIToPath(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	return ToSlash(p)
}

// RelativeTo returns p relative to root, forward-slash normalized. If p
// is not under root it is returned unchanged (slash-normalized).
func RelativeTo(root, p string) string {
	root = ToSlash(root)
	p = ToSlash(p)
	rel, err := filepath.Rel(filepath.FromSlash(root), filepath.FromSlash(p))
	if err != nil {
		return p
	}
	return ToSlash(rel)
}
