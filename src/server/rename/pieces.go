package rename

import (
	"rename-gateway/src/internal/types"
)

// PieceKind classifies one sub-range of a name occurrence by structural
// purpose. The set is closed; external classifier tags are converted with
// ClassifyPieceKind and unknown tags drop only the affected piece.
type PieceKind int32

const (
	// PieceBaseName covers the base name of a declaration or call.
	PieceBaseName PieceKind = iota

	// PieceKeywordBaseName covers a base name that is spelled as a
	// language keyword (an initializer, a subscript). Never edited.
	PieceKeywordBaseName

	// PieceParameterName covers a declaration's internal parameter name,
	// including the whitespace separating it from the external label.
	PieceParameterName

	// PieceNoncollapsibleParameterName covers an internal parameter name
	// that may not be collapsed into the external label. Never edited.
	PieceNoncollapsibleParameterName

	// PieceDeclArgumentLabel covers the external argument label of a
	// declaration parameter.
	PieceDeclArgumentLabel

	// PieceCallArgumentLabel covers the argument label at a call site.
	PieceCallArgumentLabel

	// PieceCallArgumentColon covers the colon and trailing whitespace
	// separating a call argument label from its value.
	PieceCallArgumentColon

	// PieceCallArgumentCombined is the empty insertion anchor in front of
	// an unlabeled call argument's value.
	PieceCallArgumentCombined

	// PieceSelectorArgumentLabel covers an argument label inside a
	// selector-style reference ("foo(a:b:)" spelled as a unit).
	PieceSelectorArgumentLabel
)

// pieceKindTags maps the classification capability's opaque tags onto the
// closed kind set.
var pieceKindTags = map[string]PieceKind{
	"base-name":                     PieceBaseName,
	"keyword-base-name":             PieceKeywordBaseName,
	"parameter-name":                PieceParameterName,
	"noncollapsible-parameter-name": PieceNoncollapsibleParameterName,
	"decl-argument-label":           PieceDeclArgumentLabel,
	"call-argument-label":           PieceCallArgumentLabel,
	"call-argument-colon":           PieceCallArgumentColon,
	"call-argument-combined":        PieceCallArgumentCombined,
	"selector-argument-label":       PieceSelectorArgumentLabel,
}

var pieceKindNames = map[PieceKind]string{
	PieceBaseName:                    "base-name",
	PieceKeywordBaseName:             "keyword-base-name",
	PieceParameterName:               "parameter-name",
	PieceNoncollapsibleParameterName: "noncollapsible-parameter-name",
	PieceDeclArgumentLabel:           "decl-argument-label",
	PieceCallArgumentLabel:           "call-argument-label",
	PieceCallArgumentColon:           "call-argument-colon",
	PieceCallArgumentCombined:        "call-argument-combined",
	PieceSelectorArgumentLabel:       "selector-argument-label",
}

// ClassifyPieceKind converts an opaque classifier tag into a PieceKind.
// Unknown tags return false; the caller drops just that piece.
func ClassifyPieceKind(tag string) (PieceKind, bool) {
	kind, ok := pieceKindTags[tag]
	return kind, ok
}

// IsParameterKind reports whether the kind refers to one parameter and
// therefore carries a parameter index.
func (k PieceKind) IsParameterKind() bool {
	return k != PieceBaseName && k != PieceKeywordBaseName
}

func (k PieceKind) String() string {
	if name, ok := pieceKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Piece is one classified sub-range of a name occurrence.
// ParameterIndex is -1 exactly when the kind is not parameter-related.
type Piece struct {
	Range          types.Range
	Kind           PieceKind
	ParameterIndex int
}

// RawPiece is a classifier result before tag conversion.
type RawPiece struct {
	Range          types.Range
	Tag            string
	ParameterIndex int
}

// RawOccurrence groups the classifier's pieces for one queried location
// with its opaque context tag.
type RawOccurrence struct {
	ContextTag string
	Pieces     []RawPiece
}

// Context is the syntactic context category of a matched occurrence.
type Context int32

const (
	// ContextUnmatched: the old name was not found at the queried location.
	ContextUnmatched Context = iota

	// ContextMismatch: a different name sits at the queried location.
	ContextMismatch

	// ContextActiveCode: compiled code.
	ContextActiveCode

	// ContextInactiveCode: code excluded by conditional compilation.
	ContextInactiveCode

	// ContextString: inside a string literal.
	ContextString

	// ContextSelector: a selector-style reference naming the symbol as a
	// unit.
	ContextSelector

	// ContextComment: inside a comment.
	ContextComment
)

var contextTags = map[string]Context{
	"unmatched":     ContextUnmatched,
	"mismatch":      ContextMismatch,
	"active-code":   ContextActiveCode,
	"inactive-code": ContextInactiveCode,
	"string":        ContextString,
	"selector":      ContextSelector,
	"comment":       ContextComment,
}

var contextNames = map[Context]string{
	ContextUnmatched:    "unmatched",
	ContextMismatch:     "mismatch",
	ContextActiveCode:   "active-code",
	ContextInactiveCode: "inactive-code",
	ContextString:       "string",
	ContextSelector:     "selector",
	ContextComment:      "comment",
}

// ParseContext converts an opaque context tag. Unknown tags return false;
// the caller drops the whole occurrence.
func ParseContext(tag string) (Context, bool) {
	c, ok := contextTags[tag]
	return c, ok
}

func (c Context) String() string {
	if name, ok := contextNames[c]; ok {
		return name
	}
	return "unknown"
}

// ProducesEdits encodes the inclusion policy: unmatched and mismatched
// occurrences are wrong matches, and string/comment occurrences have no
// reliable range mapping without a textual index.
func (c Context) ProducesEdits() bool {
	switch c {
	case ContextActiveCode, ContextInactiveCode, ContextSelector:
		return true
	default:
		return false
	}
}

// ClassifiedOccurrence is one matched occurrence's typed pieces plus its
// context category. Pieces never overlap within one occurrence.
type ClassifiedOccurrence struct {
	Pieces  []Piece
	Context Context
}

// AggregateOccurrence converts one raw classifier occurrence. Unknown
// context tags and excluded categories drop the occurrence (ok=false);
// unknown piece tags drop only the affected piece.
func AggregateOccurrence(raw RawOccurrence) (ClassifiedOccurrence, bool) {
	context, ok := ParseContext(raw.ContextTag)
	if !ok || !context.ProducesEdits() {
		return ClassifiedOccurrence{}, false
	}

	occ := ClassifiedOccurrence{Context: context}
	for _, rp := range raw.Pieces {
		kind, ok := ClassifyPieceKind(rp.Tag)
		if !ok {
			continue
		}
		idx := rp.ParameterIndex
		if !kind.IsParameterKind() {
			idx = -1
		}
		occ.Pieces = append(occ.Pieces, Piece{Range: rp.Range, Kind: kind, ParameterIndex: idx})
	}
	return occ, true
}

// AggregateOccurrences converts a batch of raw occurrences, keeping only
// those that may produce edits.
func AggregateOccurrences(raw []RawOccurrence) []ClassifiedOccurrence {
	var result []ClassifiedOccurrence
	for _, r := range raw {
		if occ, ok := AggregateOccurrence(r); ok {
			result = append(result, occ)
		}
	}
	return result
}
