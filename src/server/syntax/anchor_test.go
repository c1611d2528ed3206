package syntax

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rename-gateway/src/config"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
)

func posOf(t *testing.T, text, needle string, within string) types.Position {
	t.Helper()
	lineStart := 0
	if within != "" {
		lineStart = strings.Index(text, within)
		require.GreaterOrEqual(t, lineStart, 0, "needle line %q", within)
	}
	at := strings.Index(text[lineStart:], needle)
	require.GreaterOrEqual(t, at, 0, "needle %q", needle)
	return documents.NewSnapshot("", text).PositionAt(lineStart + at)
}

func TestResolveAnchorOnDeclarationName(t *testing.T) {
	text := "package main\n\nfunc doWork(a int, b int) {}\n"
	snap := documents.NewSnapshot("file:///main.go", text)
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	rng, token, err := r.ResolveAnchor(context.Background(), snap, posOf(t, text, "doWork", ""))
	require.NoError(t, err)
	assert.Equal(t, "doWork", token)
	assert.Equal(t, int32(2), rng.Start.Line)
	assert.Equal(t, int32(5), rng.Start.Column)
}

func TestResolveAnchorClimbsFromParameter(t *testing.T) {
	text := "package main\n\nfunc doWork(count int) {}\n"
	snap := documents.NewSnapshot("file:///main.go", text)
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	_, token, err := r.ResolveAnchor(context.Background(), snap, posOf(t, text, "count", ""))
	require.NoError(t, err)
	assert.Equal(t, "doWork", token)
}

func TestResolveAnchorArgumentStaysItself(t *testing.T) {
	text := "package main\n\nfunc main() {\n\tdoWork(value, other)\n}\n"
	snap := documents.NewSnapshot("file:///main.go", text)
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	_, token, err := r.ResolveAnchor(context.Background(), snap, posOf(t, text, "value", ""))
	require.NoError(t, err)
	assert.Equal(t, "value", token, "an argument expression is renamable on its own")
}

func TestResolveAnchorPythonDefinition(t *testing.T) {
	text := "def do_work(a, b):\n    return a + b\n"
	snap := documents.NewSnapshot("file:///script.py", text)
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	_, token, err := r.ResolveAnchor(context.Background(), snap, posOf(t, text, "a, b", ""))
	require.NoError(t, err)
	assert.Equal(t, "do_work", token)
}

func TestResolveAnchorCursorJustPastToken(t *testing.T) {
	text := "package main\n\nvar counter int\n"
	snap := documents.NewSnapshot("file:///main.go", text)
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	pos := posOf(t, text, "counter", "")
	pos.Column += int32(len("counter"))
	_, token, err := r.ResolveAnchor(context.Background(), snap, pos)
	require.NoError(t, err)
	assert.Equal(t, "counter", token)
}

func TestResolveAnchorUnknownExtensionFallsBackLexically(t *testing.T) {
	text := "rename doWork here\n"
	snap := documents.NewSnapshot("file:///notes.txt", text)
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	rng, token, err := r.ResolveAnchor(context.Background(), snap, posOf(t, text, "doWork", ""))
	require.NoError(t, err)
	assert.Equal(t, "doWork", token)
	assert.Equal(t, int32(7), rng.Start.Column)
	assert.Equal(t, int32(13), rng.End.Column)
}

func TestResolveAnchorNothingThere(t *testing.T) {
	snap := documents.NewSnapshot("file:///notes.txt", "   \n")
	r := NewTreeAnchorResolver(config.GetDefaultConfig())

	_, _, err := r.ResolveAnchor(context.Background(), snap, types.Position{Line: 0, Column: 1})
	assert.ErrorIs(t, err, errors.ErrNoRenamableName)
}

func TestLexicalWordAtRejectsNumbers(t *testing.T) {
	snap := documents.NewSnapshot("file:///notes.txt", "x = 1234\n")
	_, _, err := lexicalWordAt(snap, types.Position{Line: 0, Column: 5})
	assert.ErrorIs(t, err, errors.ErrNoRenamableName)
}
