package rename

import (
	"strings"

	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
)

// SynthesizeOccurrenceEdits applies the per-piece rule table to one
// classified occurrence, producing its ordered, non-overlapping edits.
// Occurrences whose context category is excluded produce nothing.
func SynthesizeOccurrenceEdits(occ ClassifiedOccurrence, snap *documents.Snapshot, oldName, newName CompoundName) []types.TextEdit {
	if !occ.Context.ProducesEdits() {
		return nil
	}

	var edits []types.TextEdit
	for _, piece := range occ.Pieces {
		if edit, ok := synthesizePieceEdit(piece, snap, oldName, newName); ok {
			edits = append(edits, edit)
		}
	}
	types.SortEdits(edits)
	return edits
}

// synthesizePieceEdit converts one piece into at most one text edit.
func synthesizePieceEdit(piece Piece, snap *documents.Snapshot, oldName, newName CompoundName) (types.TextEdit, bool) {
	switch piece.Kind {
	case PieceBaseName:
		return types.TextEdit{Range: piece.Range, NewText: newName.Base()}, true

	case PieceKeywordBaseName, PieceNoncollapsibleParameterName:
		return types.TextEdit{}, false
	}

	// Parameter-related kinds. An index out of bounds for either name is
	// skipped: a replacement signature with fewer parameters is applied
	// best-effort.
	oldParam, ok := oldName.ParameterAt(piece.ParameterIndex)
	if !ok {
		return types.TextEdit{}, false
	}
	newParam, ok := newName.ParameterAt(piece.ParameterIndex)
	if !ok {
		return types.TextEdit{}, false
	}

	switch piece.Kind {
	case PieceParameterName:
		if newParam.IsWildcard() && piece.Range.IsEmpty() && !oldParam.IsWildcard() {
			// The external label disappears; demote it to the internal
			// name so the declaration keeps referring to it.
			return types.TextEdit{Range: piece.Range, NewText: " " + oldParam.Name()}, true
		}
		if text, ok := snap.TextIn(piece.Range); ok && !newParam.IsWildcard() &&
			strings.TrimSpace(text) != "" && strings.TrimSpace(text) == newParam.Name() {
			// The internal name now matches the external label; collapse it.
			return types.TextEdit{Range: piece.Range, NewText: ""}, true
		}
		return types.TextEdit{}, false

	case PieceDeclArgumentLabel:
		label := newParam.String()
		if piece.Range.IsEmpty() {
			return types.TextEdit{Range: piece.Range, NewText: label + " "}, true
		}
		return types.TextEdit{Range: piece.Range, NewText: label}, true

	case PieceCallArgumentLabel:
		if newParam.IsWildcard() {
			return types.TextEdit{Range: piece.Range, NewText: ""}, true
		}
		return types.TextEdit{Range: piece.Range, NewText: newParam.Name()}, true

	case PieceCallArgumentColon:
		if newParam.IsWildcard() {
			return types.TextEdit{Range: piece.Range, NewText: ""}, true
		}
		return types.TextEdit{}, false

	case PieceCallArgumentCombined:
		if !newParam.IsWildcard() {
			return types.TextEdit{Range: piece.Range, NewText: newParam.Name() + ": "}, true
		}
		return types.TextEdit{}, false

	case PieceSelectorArgumentLabel:
		return types.TextEdit{Range: piece.Range, NewText: newParam.String()}, true
	}

	return types.TextEdit{}, false
}

// ApplyEdits applies an edit list to text. Used by the preview output and
// by tests verifying synthesized edit sets.
func ApplyEdits(snap *documents.Snapshot, edits []types.TextEdit) string {
	sorted := make([]types.TextEdit, len(edits))
	copy(sorted, edits)
	types.SortEdits(sorted)

	var b strings.Builder
	last := 0
	for _, e := range sorted {
		start, ok := snap.OffsetAt(e.Range.Start)
		if !ok || start < last {
			continue
		}
		end, ok := snap.OffsetAt(e.Range.End)
		if !ok || end < start {
			continue
		}
		b.WriteString(snap.Text[last:start])
		b.WriteString(e.NewText)
		last = end
	}
	b.WriteString(snap.Text[last:])
	return b.String()
}
