package utils

import (
	"runtime"
	"testing"
)

func TestURIToFilePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/user/main.go", "/home/user/main.go"},
		{"file:///tmp/with%20space.go", "/tmp/with space.go"},
		{"/already/a/path", "/already/a/path"},
	}
	for _, tt := range tests {
		if got := URIToFilePath(tt.uri); got != tt.want {
			t.Errorf("URIToFilePath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestFilePathToURIRoundTrip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}
	path := "/home/user/project/main.go"
	u := FilePathToURI(path)
	if got := URIToFilePath(u); got != path {
		t.Errorf("round trip = %q, want %q", got, path)
	}
}
