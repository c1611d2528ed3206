package rename

import (
	"context"

	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/server/index"
)

// RenameLocation is one position to edit within a file, together with how
// the symbol is used there. The classifier uses the usage kind to decide
// which piece set applies.
type RenameLocation struct {
	Position types.Position
	Usage    types.UsageKind
}

// Classifier breaks the name occurrence at one location into typed
// sub-range pieces. Implementations work purely on the snapshot text.
type Classifier interface {
	ClassifyOccurrence(ctx context.Context, snap *documents.Snapshot, loc RenameLocation, oldName CompoundName) (RawOccurrence, error)
}

// AnchorResolver maps a cursor position onto the base-name token of the
// surrounding renamable construct. It returns the token's range and its
// spelled text, or ErrNoRenamableName when nothing at the position can
// be renamed.
type AnchorResolver interface {
	ResolveAnchor(ctx context.Context, snap *documents.Snapshot, pos types.Position) (types.Range, string, error)
}

// PrepareResult is the response to a rename preparation query: the range
// the client should highlight and the full name to prefill.
type PrepareResult struct {
	Range       types.Range
	Placeholder string
}

// Provider produces rename edits for the files of one language.
type Provider interface {
	// PrepareRename reports whether the position is renamable and with
	// what placeholder.
	PrepareRename(ctx context.Context, snap *documents.Snapshot, pos types.Position) (PrepareResult, error)

	// EditsToRename synthesizes the edits replacing oldName with newName
	// at the given locations of one file.
	EditsToRename(ctx context.Context, snap *documents.Snapshot, locations []RenameLocation, oldName, newName CompoundName) ([]types.TextEdit, error)

	// Rename finds the symbol at pos and produces the full edit set for
	// this one file, discovering the locations itself.
	Rename(ctx context.Context, snap *documents.Snapshot, pos types.Position, newName string) ([]types.TextEdit, error)
}

// IndexProvider implements Provider on top of the symbol index and a
// classifier.
type IndexProvider struct {
	index      index.SymbolIndex
	classifier Classifier
	logger     *common.SafeLogger
}

// NewIndexProvider creates a provider backed by the given index and
// classifier.
func NewIndexProvider(idx index.SymbolIndex, classifier Classifier) *IndexProvider {
	return &IndexProvider{
		index:      idx,
		classifier: classifier,
		logger:     common.RenameLogger,
	}
}

// PrepareRename resolves the symbol under the cursor. The returned range
// covers the base name only; the placeholder is the symbol's full
// recorded name so the client prefills compound names intact.
func (p *IndexProvider) PrepareRename(ctx context.Context, snap *documents.Snapshot, pos types.Position) (PrepareResult, error) {
	if err := ctx.Err(); err != nil {
		return PrepareResult{}, err
	}

	occ, ok := p.index.SymbolAt(snap.URI, pos)
	if !ok {
		return PrepareResult{}, errors.ErrNoRenamableName
	}

	placeholder := ""
	if info, ok := p.index.SymbolInfo(occ.Symbol); ok {
		placeholder = info.DisplayName
	}
	if placeholder == "" {
		if text, ok := snap.TextIn(occ.Range); ok {
			placeholder = text
		}
	}
	return PrepareResult{Range: occ.Range, Placeholder: placeholder}, nil
}

// EditsToRename classifies every location and synthesizes its edits.
// A classifier failure fails the whole file: partial edits within one
// file would leave it inconsistent.
func (p *IndexProvider) EditsToRename(ctx context.Context, snap *documents.Snapshot, locations []RenameLocation, oldName, newName CompoundName) ([]types.TextEdit, error) {
	var edits []types.TextEdit
	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := p.classifier.ClassifyOccurrence(ctx, snap, loc, oldName)
		if err != nil {
			return nil, errors.NewClassificationUnavailableError(snap.URI, err)
		}

		occ, ok := AggregateOccurrence(raw)
		if !ok {
			p.logger.Debug("dropping occurrence at %s:%d:%d (context %s)",
				snap.URI, loc.Position.Line, loc.Position.Column, raw.ContextTag)
			continue
		}
		edits = append(edits, SynthesizeOccurrenceEdits(occ, snap, oldName, newName)...)
	}

	types.SortEdits(edits)
	edits = dedupeEdits(edits)
	return edits, nil
}

// Rename computes a single-file rename from the index's occurrence list,
// restricted to the snapshot's own file.
func (p *IndexProvider) Rename(ctx context.Context, snap *documents.Snapshot, pos types.Position, newName string) ([]types.TextEdit, error) {
	occ, ok := p.index.SymbolAt(snap.URI, pos)
	if !ok {
		return nil, errors.ErrNoRenamableName
	}

	oldSpelling := ""
	if info, ok := p.index.SymbolInfo(occ.Symbol); ok {
		oldSpelling = info.DisplayName
	}
	if oldSpelling == "" {
		text, ok := snap.TextIn(occ.Range)
		if !ok {
			return nil, errors.ErrNoRenamableName
		}
		oldSpelling = text
	}

	all, err := p.index.OccurrencesOf(ctx, occ.Symbol,
		types.SymbolRoleDefinition|types.SymbolRoleDeclaration|types.SymbolRoleReference)
	if err != nil {
		return nil, err
	}

	var locations []RenameLocation
	for _, o := range all {
		if o.URI != snap.URI {
			continue
		}
		locations = append(locations, RenameLocation{
			Position: o.Range.Start,
			Usage:    types.UsageFromRoles(o.Roles),
		})
	}
	return p.EditsToRename(ctx, snap, locations, ParseCompoundName(oldSpelling), ParseCompoundName(newName))
}

// dedupeEdits removes exact duplicates from a sorted edit list. Distinct
// locations can classify overlapping constructs (a call inside a call)
// and re-emit the same piece.
func dedupeEdits(edits []types.TextEdit) []types.TextEdit {
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
