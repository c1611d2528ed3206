package utils

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"go.lsp.dev/uri"
)

// URIToFilePath converts a file:// URI to a file system path
func URIToFilePath(u string) string {
	if !strings.HasPrefix(u, "file://") {
		return u
	}

	path := strings.TrimPrefix(u, "file://")

	// Decode URL-encoded characters
	decoded, err := url.PathUnescape(path)
	if err == nil {
		path = decoded
	}

	// Windows file URIs carry a leading slash before the drive letter
	if runtime.GOOS == "windows" && len(path) > 2 {
		if path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		path = filepath.FromSlash(path)
	}

	return path
}

// FilePathToURI converts a file system path to a normalized file:// URI
func FilePathToURI(path string) string {
	path = filepath.Clean(path)
	if filepath.IsAbs(path) {
		return string(uri.File(path))
	}

	// Relative paths (shouldn't happen in practice but handle gracefully)
	return "file://" + filepath.ToSlash(path)
}
