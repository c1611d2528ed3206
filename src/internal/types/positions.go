package types

import "fmt"

// Language identifies a programming language by its configured name
// (e.g. "go", "python").
type Language string

// Position represents a text position. Line is zero-based. Column is a
// zero-based UTF-8 byte offset within the line; conversion to UTF-16 code
// units happens only at the protocol boundary (see utils/lspconv).
type Position struct {
	Line   int32 `json:"line"`
	Column int32 `json:"column"`
}

// Before reports whether p is strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range represents a half-open text range [Start, End).
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range covers no text.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether pos falls inside the half-open range.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && pos.Before(r.End)
}

// Overlaps reports whether two half-open ranges share any text. Empty
// ranges at a shared boundary do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Location represents a position or range in a source file.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}
