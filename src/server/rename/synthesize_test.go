package rename

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
)

func classified(context Context, pieces ...Piece) ClassifiedOccurrence {
	return ClassifiedOccurrence{Context: context, Pieces: pieces}
}

func piece(kind PieceKind, r types.Range, idx int) Piece {
	return Piece{Range: r, Kind: kind, ParameterIndex: idx}
}

func TestSynthesizeCallSiteRelabeling(t *testing.T) {
	// foo(a:b:) -> foo(x:_:) at a fully labeled call.
	snap := documents.NewSnapshot("file:///main.go", "foo(a: 1, b: 2)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 0, 0, 3), -1),
		piece(PieceCallArgumentLabel, span(0, 4, 0, 5), 0),
		piece(PieceCallArgumentColon, span(0, 5, 0, 7), 0),
		piece(PieceCallArgumentLabel, span(0, 10, 0, 11), 1),
		piece(PieceCallArgumentColon, span(0, 11, 0, 13), 1),
	)

	oldName := ParseCompoundName("foo(a:b:)")
	newName := ParseCompoundName("foo(x:_:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, "foo(x: 1, 2)", ApplyEdits(snap, edits))
}

func TestSynthesizeDeclarationLabelCollapse(t *testing.T) {
	// foo(a:) -> foo(b:) where the internal name is already b: the
	// external label takes over and the internal name disappears.
	snap := documents.NewSnapshot("file:///main.go", "func foo(a b: Int)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 5, 0, 8), -1),
		piece(PieceDeclArgumentLabel, span(0, 9, 0, 10), 0),
		piece(PieceParameterName, span(0, 10, 0, 12), 0),
	)

	oldName := ParseCompoundName("foo(a:)")
	newName := ParseCompoundName("foo(b:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, "func foo(b: Int)", ApplyEdits(snap, edits))
}

func TestSynthesizeDeclarationLabelDemotion(t *testing.T) {
	// foo(a:) -> foo(_:): the label becomes a wildcard, so the old label
	// reappears as the internal name.
	snap := documents.NewSnapshot("file:///main.go", "func foo(a: Int)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 5, 0, 8), -1),
		piece(PieceDeclArgumentLabel, span(0, 9, 0, 10), 0),
		piece(PieceParameterName, span(0, 10, 0, 10), 0),
	)

	oldName := ParseCompoundName("foo(a:)")
	newName := ParseCompoundName("foo(_:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, "func foo(_ a: Int)", ApplyEdits(snap, edits))
}

func TestSynthesizeCombinedInsertion(t *testing.T) {
	// foo(_:) -> foo(x:): an unlabeled call argument gains a label.
	snap := documents.NewSnapshot("file:///main.go", "foo(1)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 0, 0, 3), -1),
		piece(PieceCallArgumentCombined, span(0, 4, 0, 4), 0),
	)

	oldName := ParseCompoundName("foo(_:)")
	newName := ParseCompoundName("foo(x:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, "foo(x: 1)", ApplyEdits(snap, edits))
}

func TestSynthesizeCombinedStaysUnlabeled(t *testing.T) {
	snap := documents.NewSnapshot("file:///main.go", "foo(1)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 0, 0, 3), -1),
		piece(PieceCallArgumentCombined, span(0, 4, 0, 4), 0),
	)

	oldName := ParseCompoundName("foo(_:)")
	newName := ParseCompoundName("bar(_:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	require.Len(t, edits, 1)
	assert.Equal(t, "bar(1)", ApplyEdits(snap, edits))
}

func TestSynthesizeDeclarationLabelInsertion(t *testing.T) {
	// foo(_:) -> foo(x:) at a declaration whose label position is empty.
	snap := documents.NewSnapshot("file:///main.go", "func foo(a: Int)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 5, 0, 8), -1),
		piece(PieceDeclArgumentLabel, span(0, 9, 0, 9), 0),
	)

	oldName := ParseCompoundName("foo(_:)")
	newName := ParseCompoundName("foo(x:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, "func foo(x a: Int)", ApplyEdits(snap, edits))
}

func TestSynthesizeSelectorOccurrence(t *testing.T) {
	snap := documents.NewSnapshot("file:///main.go", `selector("foo(a:b:)")`)
	occ := classified(ContextSelector,
		piece(PieceBaseName, span(0, 10, 0, 13), -1),
		piece(PieceSelectorArgumentLabel, span(0, 14, 0, 15), 0),
		piece(PieceSelectorArgumentLabel, span(0, 16, 0, 17), 1),
	)

	oldName := ParseCompoundName("foo(a:b:)")
	newName := ParseCompoundName("bar(x:_:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, `selector("bar(x:_:)")`, ApplyEdits(snap, edits))
}

func TestSynthesizeExcludedContextsProduceNothing(t *testing.T) {
	snap := documents.NewSnapshot("file:///main.go", "// foo is great")
	for _, context := range []Context{ContextComment, ContextString, ContextUnmatched, ContextMismatch} {
		occ := classified(context, piece(PieceBaseName, span(0, 3, 0, 6), -1))
		edits := SynthesizeOccurrenceEdits(occ, snap, ParseCompoundName("foo"), ParseCompoundName("bar"))
		assert.Empty(t, edits, "context %s", context)
	}
}

func TestSynthesizeNeverEditedKinds(t *testing.T) {
	snap := documents.NewSnapshot("file:///main.go", "init(a b: Int)")
	occ := classified(ContextActiveCode,
		piece(PieceKeywordBaseName, span(0, 0, 0, 4), -1),
		piece(PieceNoncollapsibleParameterName, span(0, 7, 0, 9), 0),
	)

	edits := SynthesizeOccurrenceEdits(occ, snap, ParseCompoundName("init(a:)"), ParseCompoundName("init(b:)"))
	assert.Empty(t, edits)
}

func TestSynthesizeOutOfBoundsParameterIndex(t *testing.T) {
	// A replacement signature with fewer parameters leaves the extra
	// argument untouched instead of failing the occurrence.
	snap := documents.NewSnapshot("file:///main.go", "foo(a: 1, b: 2)")
	occ := classified(ContextActiveCode,
		piece(PieceBaseName, span(0, 0, 0, 3), -1),
		piece(PieceCallArgumentLabel, span(0, 4, 0, 5), 0),
		piece(PieceCallArgumentLabel, span(0, 10, 0, 11), 5),
	)

	oldName := ParseCompoundName("foo(a:b:)")
	newName := ParseCompoundName("qux(x:)")

	edits := SynthesizeOccurrenceEdits(occ, snap, oldName, newName)
	assert.Equal(t, "qux(x: 1, b: 2)", ApplyEdits(snap, edits))
}

func TestSynthesizeEditsAreOrdered(t *testing.T) {
	snap := documents.NewSnapshot("file:///main.go", "foo(a: 1)")
	occ := classified(ContextActiveCode,
		piece(PieceCallArgumentLabel, span(0, 4, 0, 5), 0),
		piece(PieceBaseName, span(0, 0, 0, 3), -1),
	)

	edits := SynthesizeOccurrenceEdits(occ, snap, ParseCompoundName("foo(a:)"), ParseCompoundName("bar(x:)"))
	require.Len(t, edits, 2)
	assert.False(t, types.EditsOverlap(edits))
	assert.Equal(t, int32(0), edits[0].Range.Start.Column)
	assert.Equal(t, int32(4), edits[1].Range.Start.Column)
}

func TestApplyEditsMultiline(t *testing.T) {
	snap := documents.NewSnapshot("file:///main.go", "foo(1)\nfoo(2)\n")
	edits := []types.TextEdit{
		{Range: span(1, 0, 1, 3), NewText: "bar"},
		{Range: span(0, 0, 0, 3), NewText: "bar"},
	}
	assert.Equal(t, "bar(1)\nbar(2)\n", ApplyEdits(snap, edits))
}
