package types

import "sort"

// TextEdit replaces the text covered by Range with NewText. An empty range
// is an insertion, empty NewText a deletion.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// WorkspaceEdits maps a file URI to the ordered, non-overlapping edits for
// that file. Columns are UTF-8 byte offsets.
type WorkspaceEdits map[string][]TextEdit

// SortEdits orders edits by start position, insertions before replacements
// at the same position.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Range.Start != edits[j].Range.Start {
			return edits[i].Range.Start.Before(edits[j].Range.Start)
		}
		return edits[i].Range.End.Before(edits[j].Range.End)
	})
}

// EditsOverlap reports whether any two edits in the sorted slice cover
// shared text.
func EditsOverlap(edits []TextEdit) bool {
	for i := 1; i < len(edits); i++ {
		if edits[i-1].Range.Overlaps(edits[i].Range) {
			return true
		}
	}
	return false
}
