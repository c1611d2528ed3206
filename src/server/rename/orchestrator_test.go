package rename

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rename-gateway/src/config"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/server/index"
)

// fakeProvider returns a canned single edit per file and records which
// files it was asked about.
type fakeProvider struct {
	mu       sync.Mutex
	renamed  []string
	edited   []string
	failURIs map[string]bool
	noSymbol bool
}

func (f *fakeProvider) PrepareRename(ctx context.Context, snap *documents.Snapshot, pos types.Position) (PrepareResult, error) {
	if f.noSymbol {
		return PrepareResult{}, errors.ErrNoRenamableName
	}
	return PrepareResult{Range: span(0, 0, 0, 3), Placeholder: "doWork(a:b:)"}, nil
}

func (f *fakeProvider) EditsToRename(ctx context.Context, snap *documents.Snapshot, locations []RenameLocation, oldName, newName CompoundName) ([]types.TextEdit, error) {
	f.mu.Lock()
	f.edited = append(f.edited, snap.URI)
	f.mu.Unlock()
	if f.failURIs[snap.URI] {
		return nil, fmt.Errorf("classifier exploded")
	}
	var edits []types.TextEdit
	for _, loc := range locations {
		end := loc.Position
		end.Column += int32(len(oldName.Base()))
		edits = append(edits, types.TextEdit{
			Range:   types.Range{Start: loc.Position, End: end},
			NewText: newName.Base(),
		})
	}
	return edits, nil
}

func (f *fakeProvider) Rename(ctx context.Context, snap *documents.Snapshot, pos types.Position, newName string) ([]types.TextEdit, error) {
	if f.noSymbol {
		return nil, errors.ErrNoRenamableName
	}
	f.mu.Lock()
	f.renamed = append(f.renamed, snap.URI)
	f.mu.Unlock()
	return []types.TextEdit{{Range: span(0, 0, 0, 6), NewText: ParseCompoundName(newName).Base()}}, nil
}

type fixedAnchor struct {
	r    types.Range
	text string
	err  error
}

func (a fixedAnchor) ResolveAnchor(ctx context.Context, snap *documents.Snapshot, pos types.Position) (types.Range, string, error) {
	return a.r, a.text, a.err
}

func orchestratorFixture(t *testing.T) (*Orchestrator, *fakeProvider, *fakeProvider, *documents.Manager, *index.MemoryIndex) {
	t.Helper()

	idx := resolverIndex()
	docs := documents.NewManager()
	docs.Open("file:///src/lib.go", "func doWork(a int, b int) {}\ndoWork(1, 2)\n")
	docs.Open("file:///src/script.py", "import lib\nlib.do_work(1, 2)\n")

	cfg := config.GetDefaultConfig()
	resolver := NewNameResolver(idx, SnakeCaseTranslator{}, types.Language(cfg.NativeLanguage))
	native := &fakeProvider{}
	foreign := &fakeProvider{}
	anchors := fixedAnchor{err: errors.ErrNoRenamableName}

	o := NewOrchestrator(cfg, idx, docs, resolver, anchors, native, foreign)
	return o, native, foreign, docs, idx
}

func TestRenameMergesLocalAndIndexEdits(t *testing.T) {
	o, native, foreign, _, _ := orchestratorFixture(t)

	result, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "doMore(x:_:)",
	})
	require.NoError(t, err)
	assert.False(t, result.LocalOnly)

	// The anchor file came from the syntactic backend, the foreign file
	// from the index backend, and no file from both.
	require.Contains(t, result.Edits, "file:///src/lib.go")
	require.Contains(t, result.Edits, "file:///src/script.py")
	assert.Equal(t, []string{"file:///src/lib.go"}, native.renamed)
	assert.Equal(t, []string{"file:///src/script.py"}, foreign.edited)
	assert.NotContains(t, native.edited, "file:///src/lib.go")
}

func TestRenameForeignFileGetsTranslatedSpelling(t *testing.T) {
	o, _, _, _, _ := orchestratorFixture(t)

	result, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "doMore(x:_:)",
	})
	require.NoError(t, err)

	edits := result.Edits["file:///src/script.py"]
	require.Len(t, edits, 1)
	assert.Equal(t, "do_more", edits[0].NewText)
}

func TestRenameAmbiguousDefinitionFallsBackToLocal(t *testing.T) {
	o, native, foreign, _, idx := orchestratorFixture(t)

	// A second definition makes the identity ambiguous.
	idx.AddDocument(index.Document{
		URI:      "file:///src/other.go",
		Language: "go",
		Occurrences: []index.SymbolOccurrence{
			{URI: "file:///src/other.go", Range: span(1, 0, 1, 6), Symbol: "sym:doWork", Roles: types.SymbolRoleDefinition},
		},
	})

	result, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "doMore",
	})
	require.NoError(t, err)
	assert.True(t, result.LocalOnly)
	assert.Equal(t, []string{"file:///src/lib.go"}, keysOf(result.Edits))
	assert.Equal(t, []string{"file:///src/lib.go"}, native.renamed)
	assert.Empty(t, foreign.edited)
}

func TestRenameFileFailureIsIsolated(t *testing.T) {
	o, _, foreign, docs, idx := orchestratorFixture(t)

	idx.AddDocument(index.Document{
		URI:      "file:///src/broken.py",
		Language: "python",
		Occurrences: []index.SymbolOccurrence{
			{URI: "file:///src/broken.py", Range: span(2, 4, 2, 11), Symbol: "sym:doWork", Roles: types.SymbolRoleReference},
		},
	})
	docs.Open("file:///src/broken.py", "# broken\nlib.do_work(3, 4)\n")
	foreign.failURIs = map[string]bool{"file:///src/broken.py": true}

	result, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "doMore",
	})
	require.NoError(t, err)
	assert.False(t, result.LocalOnly)
	assert.Contains(t, result.Edits, "file:///src/script.py")
	assert.NotContains(t, result.Edits, "file:///src/broken.py")
}

func TestRenameCancelledBeforeMerge(t *testing.T) {
	o, _, _, _, _ := orchestratorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := o.Rename(ctx, Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "doMore",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCancellation(err))
	assert.Empty(t, result.Edits)
}

func TestRenameNoRenamableName(t *testing.T) {
	o, native, _, _, _ := orchestratorFixture(t)
	native.noSymbol = true

	_, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 99, Column: 0},
		NewName:  "doMore",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoRenamableName)
}

func TestRenameRejectsInvalidNewName(t *testing.T) {
	o, _, _, _, _ := orchestratorFixture(t)

	_, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "9lives",
	})
	assert.Error(t, err)
}

func TestRenameExcludePatternsFilterFiles(t *testing.T) {
	o, _, _, docs, idx := orchestratorFixture(t)

	idx.AddDocument(index.Document{
		URI:      "file:///src/vendor/dep.py",
		Language: "python",
		Occurrences: []index.SymbolOccurrence{
			{URI: "file:///src/vendor/dep.py", Range: span(0, 0, 0, 7), Symbol: "sym:doWork", Roles: types.SymbolRoleReference},
		},
	})
	docs.Open("file:///src/vendor/dep.py", "do_work(1, 2)\n")

	result, err := o.Rename(context.Background(), Request{
		URI:      "file:///src/lib.go",
		Position: types.Position{Line: 3, Column: 6},
		NewName:  "doMore",
	})
	require.NoError(t, err)
	assert.NotContains(t, result.Edits, "file:///src/vendor/dep.py")
	assert.Contains(t, result.Edits, "file:///src/script.py")
}

func TestPrepareRenameFallsBackToAnchor(t *testing.T) {
	o, native, _, _, _ := orchestratorFixture(t)
	native.noSymbol = true
	o.anchors = fixedAnchor{r: span(0, 5, 0, 11), text: "doWork"}

	result, err := o.PrepareRename(context.Background(), "file:///src/lib.go", types.Position{Line: 0, Column: 7})
	require.NoError(t, err)
	assert.Equal(t, "doWork", result.Placeholder)
	assert.Equal(t, span(0, 5, 0, 11), result.Range)
}

func keysOf(edits types.WorkspaceEdits) []string {
	var keys []string
	for k := range edits {
		keys = append(keys, k)
	}
	return keys
}
