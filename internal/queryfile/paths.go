package queryfile

import (
	"path/filepath"
	"strings"
)

// ResolvePath joins a relative path onto baseDir and leaves absolute-like paths alone.
func ResolvePath(path, baseDir string) string {
	path = strings.TrimSpace(path)
	if path == "" || IsAbsoluteLike(path) || strings.TrimSpace(baseDir) == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// IsAbsoluteLike reports whether path is absolute on any common OS: POSIX roots,
// UNC shares and Windows drive letters.
func IsAbsoluteLike(path string) bool {
	switch {
	case path == "":
		return false
	case filepath.IsAbs(path), strings.HasPrefix(path, "/"), strings.HasPrefix(path, `\\`):
		return true
	}
	return len(path) >= 3 && isASCIIAlpha(path[0]) && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
