package syntax

import (
	"context"
	"strings"

	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/server/rename"
)

// SyntacticProvider is the rename backend that works from the file text
// alone: tree-sitter anchoring plus lexical occurrence discovery. The
// orchestrator uses it for native-language files and as the local-only
// fallback when the index is unavailable.
type SyntacticProvider struct {
	anchors    rename.AnchorResolver
	classifier rename.Classifier
	logger     *common.SafeLogger
}

func NewSyntacticProvider(anchors rename.AnchorResolver, classifier rename.Classifier) *SyntacticProvider {
	return &SyntacticProvider{
		anchors:    anchors,
		classifier: classifier,
		logger:     common.RenameLogger,
	}
}

// PrepareRename resolves the base-name token under the cursor and spells
// its full compound name from the argument list that follows it.
func (p *SyntacticProvider) PrepareRename(ctx context.Context, snap *documents.Snapshot, pos types.Position) (rename.PrepareResult, error) {
	anchorRange, text, err := p.anchors.ResolveAnchor(ctx, snap, pos)
	if err != nil {
		return rename.PrepareResult{}, err
	}
	return rename.PrepareResult{
		Range:       anchorRange,
		Placeholder: compoundSpellingAt(snap, anchorRange, text).String(),
	}, nil
}

// EditsToRename classifies each location and synthesizes its edits.
func (p *SyntacticProvider) EditsToRename(ctx context.Context, snap *documents.Snapshot, locations []rename.RenameLocation, oldName, newName rename.CompoundName) ([]types.TextEdit, error) {
	var edits []types.TextEdit
	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := p.classifier.ClassifyOccurrence(ctx, snap, loc, oldName)
		if err != nil {
			return nil, errors.NewClassificationUnavailableError(snap.URI, err)
		}
		occ, ok := rename.AggregateOccurrence(raw)
		if !ok {
			continue
		}
		edits = append(edits, rename.SynthesizeOccurrenceEdits(occ, snap, oldName, newName)...)
	}
	types.SortEdits(edits)
	return compactEdits(edits), nil
}

// Rename anchors at pos, discovers every same-file occurrence of the name
// lexically, and synthesizes the file's full edit set.
func (p *SyntacticProvider) Rename(ctx context.Context, snap *documents.Snapshot, pos types.Position, newName string) ([]types.TextEdit, error) {
	anchorRange, text, err := p.anchors.ResolveAnchor(ctx, snap, pos)
	if err != nil {
		return nil, err
	}

	oldName := compoundSpellingAt(snap, anchorRange, text)
	locations := findOccurrences(snap, oldName.Base())
	if len(locations) == 0 {
		return nil, errors.ErrNoRenamableName
	}
	return p.EditsToRename(ctx, snap, locations, oldName, rename.ParseCompoundName(newName))
}

// compoundSpellingAt spells the compound name of the token at baseRange by
// reading the labeled argument list that follows it. Without labels the
// plain base name is returned.
func compoundSpellingAt(snap *documents.Snapshot, baseRange types.Range, base string) rename.CompoundName {
	absEnd, ok := snap.OffsetAt(baseRange.End)
	if !ok {
		return rename.NewCompoundName(base)
	}
	text := snap.Text
	i := absEnd
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i >= len(text) || text[i] != '(' {
		return rename.NewCompoundName(base)
	}

	args := splitArguments(text, i)
	var params []rename.Parameter
	labeled := false
	for _, arg := range args {
		label, ok := argumentLabel(text, arg)
		if ok {
			labeled = true
			params = append(params, rename.NamedParameter(label))
		} else {
			params = append(params, rename.WildcardParameter())
		}
	}
	if !labeled {
		return rename.NewCompoundName(base)
	}
	return rename.NewCompoundName(base, params...)
}

// argumentLabel extracts the identifier before a top-level colon in one
// argument span, if present.
func argumentLabel(text string, arg argSpan) (string, bool) {
	vs := arg.start
	for vs < arg.end && isSpaceByte(text[vs]) {
		vs++
	}
	le := vs
	for le < arg.end && isIdentByte(text[le]) {
		le++
	}
	if le == vs {
		return "", false
	}
	label := text[vs:le]

	// Declarations put an internal name between the label and the colon.
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
	if colon < arg.end && text[colon] == ':' && (colon+1 >= arg.end || text[colon+1] != ':') {
		if label == "_" {
			return "", false
		}
		return label, true
	}
	return "", false
}

// findOccurrences locates every word-boundary match of base in the
// snapshot and guesses its usage from the surrounding tokens.
func findOccurrences(snap *documents.Snapshot, base string) []rename.RenameLocation {
	if base == "" {
		return nil
	}
	text := snap.Text
	var locations []rename.RenameLocation
	for i := 0; i+len(base) <= len(text); {
		j := strings.Index(text[i:], base)
		if j < 0 {
			break
		}
		at := i + j
		i = at + len(base)
		if at > 0 && isIdentByte(text[at-1]) {
			continue
		}
		if at+len(base) < len(text) && isIdentByte(text[at+len(base)]) {
			continue
		}
		locations = append(locations, rename.RenameLocation{
			Position: snap.PositionAt(at),
			Usage:    usageAt(text, at, at+len(base)),
		})
	}
	return locations
}

var definitionKeywords = map[string]bool{
	"func":  true,
	"def":   true,
	"type":  true,
	"class": true,
	"var":   true,
	"const": true,
}

// usageAt guesses how the occurrence uses the symbol: definitions follow a
// declaration keyword, calls precede an opening paren.
func usageAt(text string, start, end int) types.UsageKind {
	k := start
	for k > 0 && isSpaceByte(text[k-1]) {
		k--
	}
	ks := k
	for ks > 0 && isIdentByte(text[ks-1]) {
		ks--
	}
	if definitionKeywords[text[ks:k]] {
		return types.UsageDefinition
	}

	n := end
	for n < len(text) && (text[n] == ' ' || text[n] == '\t') {
		n++
	}
	if n < len(text) && text[n] == '(' {
		return types.UsageCall
	}
	return types.UsageReference
}

// compactEdits drops exact duplicates from a sorted edit list.
func compactEdits(edits []types.TextEdit) []types.TextEdit {
	if len(edits) < 2 {
		return edits
	}
	out := edits[:1]
	for _, e := range edits[1:] {
		last := out[len(out)-1]
		if e.Range == last.Range && e.NewText == last.NewText {
			continue
		}
		out = append(out, e)
	}
	return out
}
