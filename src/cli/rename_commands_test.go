package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rename-gateway/src/internal/types"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		arg     string
		want    types.Position
		wantErr bool
	}{
		{"1:1", types.Position{Line: 0, Column: 0}, false},
		{"12:8", types.Position{Line: 11, Column: 7}, false},
		{"12", types.Position{}, true},
		{"0:5", types.Position{}, true},
		{"a:b", types.Position{}, true},
		{"", types.Position{}, true},
	}

	for _, tt := range tests {
		got, err := parsePosition(tt.arg)
		if tt.wantErr {
			assert.Error(t, err, "arg %q", tt.arg)
			continue
		}
		require.NoError(t, err, "arg %q", tt.arg)
		assert.Equal(t, tt.want, got, "arg %q", tt.arg)
	}
}

func TestFileURI(t *testing.T) {
	uri, err := fileURI("/tmp/lib.go")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/lib.go", uri)
}
