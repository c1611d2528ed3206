package documents

import (
	"strings"

	"rename-gateway/src/internal/types"
)

// Snapshot is an immutable view of one file's text with a precomputed line
// offset table. Concurrent rename tasks share snapshots freely; nothing
// mutates one after construction.
type Snapshot struct {
	URI  string
	Text string

	// lineOffsets[i] is the byte offset of the first character of line i.
	lineOffsets []int
}

// NewSnapshot builds a snapshot for the given text.
func NewSnapshot(uri, text string) *Snapshot {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &Snapshot{URI: uri, Text: text, lineOffsets: offsets}
}

// LineCount returns the number of lines, counting a trailing newline as
// starting a final empty line.
func (s *Snapshot) LineCount() int32 {
	return int32(len(s.lineOffsets))
}

// LineText returns the text of one line without its trailing newline.
// Out-of-range lines yield "".
func (s *Snapshot) LineText(line int32) string {
	if line < 0 || int(line) >= len(s.lineOffsets) {
		return ""
	}
	start := s.lineOffsets[line]
	end := len(s.Text)
	if int(line)+1 < len(s.lineOffsets) {
		end = s.lineOffsets[line+1]
	}
	return strings.TrimRight(s.Text[start:end], "\n")
}

// OffsetAt converts a position to a byte offset. Columns past the end of a
// line clamp to the line end.
func (s *Snapshot) OffsetAt(pos types.Position) (int, bool) {
	if pos.Line < 0 || int(pos.Line) >= len(s.lineOffsets) {
		return 0, false
	}
	lineStart := s.lineOffsets[pos.Line]
	lineEnd := len(s.Text)
	if int(pos.Line)+1 < len(s.lineOffsets) {
		lineEnd = s.lineOffsets[pos.Line+1] - 1 // before the newline
	}
	offset := lineStart + int(pos.Column)
	if offset > lineEnd {
		offset = lineEnd
	}
	if offset < lineStart {
		return 0, false
	}
	return offset, true
}

// PositionAt converts a byte offset to a position. Out-of-range offsets
// clamp to the ends of the text.
func (s *Snapshot) PositionAt(offset int) types.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}

	// Binary search for the line containing offset.
	lo, hi := 0, len(s.lineOffsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lineOffsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return types.Position{Line: int32(lo), Column: int32(offset - s.lineOffsets[lo])}
}

// RangeOf converts a byte offset pair into a Range.
func (s *Snapshot) RangeOf(start, end int) types.Range {
	return types.Range{Start: s.PositionAt(start), End: s.PositionAt(end)}
}

// TextIn returns the text covered by a range.
func (s *Snapshot) TextIn(r types.Range) (string, bool) {
	start, ok := s.OffsetAt(r.Start)
	if !ok {
		return "", false
	}
	end, ok := s.OffsetAt(r.End)
	if !ok || end < start {
		return "", false
	}
	return s.Text[start:end], true
}
