package syntax

import (
	"context"
	"strings"

	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/server/rename"
)

// LexicalClassifier breaks a name occurrence into tagged sub-range pieces
// by scanning the snapshot text. It understands the labeled-argument
// convention ("foo(a: 1, b: 2)") at calls and declarations, and detects
// string, comment, and selector contexts on the occurrence's line.
//
// It deliberately emits the same opaque tags an external classification
// capability would, so the aggregation layer treats both identically.
type LexicalClassifier struct {
	// LineCommentMarkers per language; "//" and "#" when empty.
	LineCommentMarkers []string
}

func NewLexicalClassifier() *LexicalClassifier {
	return &LexicalClassifier{LineCommentMarkers: []string{"//", "#"}}
}

func (c *LexicalClassifier) ClassifyOccurrence(ctx context.Context, snap *documents.Snapshot, loc rename.RenameLocation, oldName rename.CompoundName) (rename.RawOccurrence, error) {
	if err := ctx.Err(); err != nil {
		return rename.RawOccurrence{}, err
	}

	line := snap.LineText(loc.Position.Line)
	col := int(loc.Position.Column)
	if col >= len(line) || !isIdentByte(line[col]) {
		return rename.RawOccurrence{ContextTag: "unmatched"}, nil
	}

	start := col
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isIdentByte(line[end]) {
		end++
	}
	if line[start:end] != oldName.Base() {
		return rename.RawOccurrence{ContextTag: "mismatch"}, nil
	}

	baseRange := types.Range{
		Start: types.Position{Line: loc.Position.Line, Column: int32(start)},
		End:   types.Position{Line: loc.Position.Line, Column: int32(end)},
	}

	switch c.surroundingContext(line, start) {
	case contextComment:
		return rename.RawOccurrence{ContextTag: "comment"}, nil
	case contextString:
		if pieces, ok := c.selectorPieces(line, start, end, loc.Position.Line, oldName); ok {
			return rename.RawOccurrence{ContextTag: "selector", Pieces: pieces}, nil
		}
		return rename.RawOccurrence{ContextTag: "string"}, nil
	}

	occ := rename.RawOccurrence{
		ContextTag: "active-code",
		Pieces:     []rename.RawPiece{{Range: baseRange, Tag: "base-name"}},
	}
	if oldName.IsCompound() {
		absEnd, ok := snap.OffsetAt(baseRange.End)
		if ok {
			occ.Pieces = append(occ.Pieces, c.argumentPieces(snap, absEnd, loc.Usage)...)
		}
	}
	return occ, nil
}

type lineContext int

const (
	contextCode lineContext = iota
	contextString
	contextComment
)

// surroundingContext scans the line up to col and reports whether the
// position sits in code, a string literal, or a line comment.
func (c *LexicalClassifier) surroundingContext(line string, col int) lineContext {
	markers := c.LineCommentMarkers
	if len(markers) == 0 {
		markers = []string{"//", "#"}
	}

	var quote byte
	for i := 0; i < col; i++ {
		ch := line[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		if ch == '"' || ch == '\'' || ch == '`' {
			quote = ch
			continue
		}
		for _, m := range markers {
			if strings.HasPrefix(line[i:], m) {
				return contextComment
			}
		}
	}
	if quote != 0 {
		return contextString
	}
	return contextCode
}

// selectorPieces recognizes the full compound spelling inside a string
// ("doWork(a:b:)") and emits base plus selector label pieces over it.
func (c *LexicalClassifier) selectorPieces(line string, start, end int, lineNo int32, oldName rename.CompoundName) ([]rename.RawPiece, bool) {
	if !oldName.IsCompound() {
		return nil, false
	}
	if !strings.HasPrefix(line[start:], oldName.String()) {
		return nil, false
	}

	pieces := []rename.RawPiece{{
		Range: types.Range{
			Start: types.Position{Line: lineNo, Column: int32(start)},
			End:   types.Position{Line: lineNo, Column: int32(end)},
		},
		Tag: "base-name",
	}}

	// Walk the "(a:b:)" tail, one label per colon.
	i := end + 1
	for idx := range oldName.Parameters() {
		ls := i
		for i < len(line) && isIdentByte(line[i]) {
			i++
		}
		pieces = append(pieces, rename.RawPiece{
			Range: types.Range{
				Start: types.Position{Line: lineNo, Column: int32(ls)},
				End:   types.Position{Line: lineNo, Column: int32(i)},
			},
			Tag:            "selector-argument-label",
			ParameterIndex: idx,
		})
		i++ // the colon
	}
	return pieces, true
}

// argumentPieces parses the parenthesized list following the base name at
// absolute offset absEnd, emitting call or declaration pieces depending on
// usage. Arguments may span lines.
func (c *LexicalClassifier) argumentPieces(snap *documents.Snapshot, absEnd int, usage types.UsageKind) []rename.RawPiece {
	text := snap.Text
	i := absEnd
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i >= len(text) || text[i] != '(' {
		return nil
	}

	args := splitArguments(text, i)
	var pieces []rename.RawPiece
	for idx, arg := range args {
		if usage == types.UsageDefinition {
			pieces = append(pieces, declParameterPieces(snap, text, arg, idx)...)
		} else {
			pieces = append(pieces, callArgumentPieces(snap, text, arg, idx)...)
		}
	}
	return pieces
}

// argSpan is one argument's absolute byte range, commas and outer parens
// excluded.
type argSpan struct {
	start, end int
}

// splitArguments returns the top-level comma-separated spans inside the
// parenthesized list opening at open. Nested brackets and string literals
// are skipped over.
func splitArguments(text string, open int) []argSpan {
	var args []argSpan
	depth := 1
	argStart := open + 1
	var quote byte
	for i := open + 1; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				if i > argStart || len(args) > 0 {
					args = append(args, argSpan{start: argStart, end: i})
				}
				return args
			}
		case ',':
			if depth == 1 {
				args = append(args, argSpan{start: argStart, end: i})
				argStart = i + 1
			}
		}
	}
	return args
}

// callArgumentPieces emits label/colon pieces for a labeled argument, or a
// combined insertion anchor for an unlabeled one.
func callArgumentPieces(snap *documents.Snapshot, text string, arg argSpan, idx int) []rename.RawPiece {
	vs := arg.start
	for vs < arg.end && isSpaceByte(text[vs]) {
		vs++
	}
	if vs >= arg.end {
		return nil
	}

	le := vs
	for le < arg.end && isIdentByte(text[le]) {
		le++
	}
	colon := le
	for colon < arg.end && isSpaceByte(text[colon]) {
		colon++
	}

	if le > vs && colon < arg.end && text[colon] == ':' && (colon+1 >= arg.end || text[colon+1] != ':') {
		colonEnd := colon + 1
		for colonEnd < arg.end && isSpaceByte(text[colonEnd]) {
			colonEnd++
		}
		return []rename.RawPiece{
			{Range: snap.RangeOf(vs, le), Tag: "call-argument-label", ParameterIndex: idx},
			{Range: snap.RangeOf(colon, colonEnd), Tag: "call-argument-colon", ParameterIndex: idx},
		}
	}
	return []rename.RawPiece{
		{Range: snap.RangeOf(vs, vs), Tag: "call-argument-combined", ParameterIndex: idx},
	}
}

// declParameterPieces emits the external-label and internal-name pieces
// for one declaration parameter. Only the labeled form ("a b: Int",
// "a: Int") produces pieces; positional parameter lists are left alone.
func declParameterPieces(snap *documents.Snapshot, text string, arg argSpan, idx int) []rename.RawPiece {
	vs := arg.start
	for vs < arg.end && isSpaceByte(text[vs]) {
		vs++
	}
	le := vs
	for le < arg.end && isIdentByte(text[le]) {
		le++
	}
	if le == vs {
		return nil
	}

	// Optional internal name between the label and the colon.
	ns := le
	for ns < arg.end && isSpaceByte(text[ns]) {
		ns++
	}
	ne := ns
	for ne < arg.end && isIdentByte(text[ne]) {
		ne++
	}
	colon := ne
	for colon < arg.end && isSpaceByte(text[colon]) {
		colon++
	}
	if colon >= arg.end || text[colon] != ':' {
		return nil
	}

	nameEnd := le
	if ne > ns {
		nameEnd = ne
	}
	return []rename.RawPiece{
		{Range: snap.RangeOf(vs, le), Tag: "decl-argument-label", ParameterIndex: idx},
		{Range: snap.RangeOf(le, nameEnd), Tag: "parameter-name", ParameterIndex: idx},
	}
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
