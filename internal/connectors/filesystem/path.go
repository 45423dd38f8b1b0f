package filesystem

import (
	"path/filepath"
	"strings"
)

// ResolvePath converts a file:// URI or bare path to a cleaned local path.
func ResolvePath(uri string) string {
	p := strings.TrimPrefix(uri, "file://")
	if p == "" {
		return "."
	}
	return filepath.Clean(p)
}

// isHidden reports whether any component of path starts with a dot.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." || part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
