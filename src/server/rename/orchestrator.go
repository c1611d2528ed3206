package rename

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"rename-gateway/src/config"
	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/server/index"
	"rename-gateway/src/utils"
)

const (
	// DefaultSynthesisWorkers bounds the per-file fan-out.
	DefaultSynthesisWorkers = 8
)

// Request is one rename transaction: where the cursor sits and what the
// symbol should be called afterwards.
type Request struct {
	URI      string
	Position types.Position
	NewName  string
}

// Result is the outcome of a rename: the per-file edit sets plus whether
// the operation degraded to the anchor file only.
type Result struct {
	Edits     types.WorkspaceEdits
	LocalOnly bool
}

// Orchestrator drives a workspace rename end to end: anchor resolution,
// cross-language name resolution, occurrence collection, concurrent
// per-file edit synthesis, and the merge into one result. When any of the
// workspace-wide stages fails non-fatally it degrades to a single-file
// rename instead of failing the request.
type Orchestrator struct {
	cfg       *config.Config
	index     index.SymbolIndex
	documents *documents.Manager
	resolver  *NameResolver
	anchors   AnchorResolver

	// native handles files of the native language syntactically; foreign
	// handles everything reached through the index.
	native  Provider
	foreign Provider

	workers int
	logger  *common.SafeLogger
}

// NewOrchestrator wires the rename pipeline together.
func NewOrchestrator(cfg *config.Config, idx index.SymbolIndex, docs *documents.Manager, resolver *NameResolver, anchors AnchorResolver, native, foreign Provider) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		index:     idx,
		documents: docs,
		resolver:  resolver,
		anchors:   anchors,
		native:    native,
		foreign:   foreign,
		workers:   DefaultSynthesisWorkers,
		logger:    common.RenameLogger,
	}
}

// SetWorkers overrides the synthesis fan-out width.
func (o *Orchestrator) SetWorkers(n int) {
	if n > 0 {
		o.workers = n
	}
}

func (o *Orchestrator) nativeLanguage() types.Language {
	return types.Language(o.cfg.NativeLanguage)
}

// PrepareRename reports whether the position is renamable, preferring the
// index's recorded name and falling back to the syntactic anchor.
func (o *Orchestrator) PrepareRename(ctx context.Context, uri string, pos types.Position) (PrepareResult, error) {
	snap, err := o.documents.Snapshot(ctx, uri)
	if err != nil {
		return PrepareResult{}, err
	}
	if result, err := o.native.PrepareRename(ctx, snap, pos); err == nil {
		return result, nil
	}
	anchorRange, text, err := o.anchors.ResolveAnchor(ctx, snap, pos)
	if err != nil {
		return PrepareResult{}, errors.ErrNoRenamableName
	}
	return PrepareResult{Range: anchorRange, Placeholder: text}, nil
}

// Rename executes the full pipeline for one request.
func (o *Orchestrator) Rename(ctx context.Context, req Request) (Result, error) {
	if err := ValidateNewName(req.NewName); err != nil {
		return Result{}, err
	}

	snap, err := o.documents.Snapshot(ctx, req.URI)
	if err != nil {
		return Result{}, err
	}

	anchor, symbol, err := o.resolveAnchor(ctx, snap, req.Position)
	if err != nil {
		if errors.IsCancellation(err) {
			return Result{}, err
		}
		// No identity: the index cannot help, so try a purely local
		// rename before giving up.
		o.logger.Debug("anchor resolution failed for %s: %v", req.URI, err)
		return o.localOnly(ctx, snap, req)
	}

	oldName, newName, err := o.resolveNames(ctx, symbol, req.NewName)
	if err != nil {
		if errors.IsCancellation(err) {
			return Result{}, err
		}
		o.logger.Debug("name resolution failed for %s: %v", symbol, err)
		return o.localOnly(ctx, snap, req)
	}

	byFile, err := o.collectLocations(ctx, symbol)
	if err != nil {
		if errors.IsCancellation(err) {
			return Result{}, err
		}
		o.logger.Debug("location collection failed for %s: %v", symbol, err)
		return o.localOnly(ctx, snap, req)
	}

	// Local fast path: the anchor file's edits come from the syntactic
	// backend directly when the file is native, so the index backend must
	// not touch that file again.
	localEdits, localHandled := o.localFastPath(ctx, snap, anchor, req.NewName)
	if localHandled {
		delete(byFile, req.URI)
	}

	edits, err := o.synthesizeAll(ctx, byFile, oldName, newName)
	if err != nil {
		return Result{}, err
	}

	// Merge. The fast-path delete above is the single-source guarantee:
	// each file's edits come from exactly one backend.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if localHandled && len(localEdits) > 0 {
		edits[req.URI] = localEdits
	}
	return Result{Edits: edits}, nil
}

// resolveAnchor finds the canonical base-name position for the request
// and the index identity recorded there.
func (o *Orchestrator) resolveAnchor(ctx context.Context, snap *documents.Snapshot, pos types.Position) (types.Position, string, error) {
	if err := ctx.Err(); err != nil {
		return types.Position{}, "", err
	}

	// The index answers directly when the cursor is on the base name.
	if occ, ok := o.index.SymbolAt(snap.URI, pos); ok {
		return o.preferDeclarationAnchor(ctx, snap.URI, occ), occ.Symbol, nil
	}

	// Otherwise walk up from the token under the cursor to the enclosing
	// construct's base-name token and retry there.
	anchorRange, _, err := o.anchors.ResolveAnchor(ctx, snap, pos)
	if err != nil {
		return types.Position{}, "", err
	}
	if occ, ok := o.index.SymbolAt(snap.URI, anchorRange.Start); ok {
		return o.preferDeclarationAnchor(ctx, snap.URI, occ), occ.Symbol, nil
	}
	return types.Position{}, "", errors.NewAnchorNotFoundError(snap.URI, pos.Line, pos.Column)
}

// preferDeclarationAnchor moves a constructor-like anchor to the symbol's
// own declaration when that declaration is in the same file. Constructor
// references often sit on the type name rather than the initializer.
func (o *Orchestrator) preferDeclarationAnchor(ctx context.Context, uri string, occ index.SymbolOccurrence) types.Position {
	info, ok := o.index.SymbolInfo(occ.Symbol)
	if !ok || info.Kind != index.SymbolKindConstructor {
		return occ.Range.Start
	}
	defs, err := o.index.DefinitionsOf(ctx, occ.Symbol)
	if err != nil || len(defs) != 1 {
		return occ.Range.Start
	}
	if defs[0].URI == uri {
		return defs[0].Range.Start
	}
	return occ.Range.Start
}

// resolveNames resolves the cross-language spellings of the symbol's
// current and requested names.
func (o *Orchestrator) resolveNames(ctx context.Context, symbol, newName string) (CrossLanguageName, CrossLanguageName, error) {
	oldName, err := o.resolver.Resolve(ctx, symbol, "")
	if err != nil {
		return CrossLanguageName{}, CrossLanguageName{}, err
	}
	replacement, err := o.resolver.Resolve(ctx, symbol, newName)
	if err != nil {
		return CrossLanguageName{}, CrossLanguageName{}, err
	}
	return oldName, replacement, nil
}

// collectLocations gathers every occurrence of the symbol, filters it
// through the workspace include/exclude patterns, and groups by file.
func (o *Orchestrator) collectLocations(ctx context.Context, symbol string) (map[string][]RenameLocation, error) {
	occs, err := o.index.OccurrencesOf(ctx, symbol, resolutionRoles)
	if err != nil {
		return nil, err
	}

	byFile := make(map[string][]RenameLocation)
	for _, occ := range occs {
		if !o.allowsURI(occ.URI) {
			continue
		}
		byFile[occ.URI] = append(byFile[occ.URI], RenameLocation{
			Position: occ.Range.Start,
			Usage:    types.UsageFromRoles(occ.Roles),
		})
	}
	for _, locs := range byFile {
		sort.Slice(locs, func(i, j int) bool {
			if locs[i].Position.Line != locs[j].Position.Line {
				return locs[i].Position.Line < locs[j].Position.Line
			}
			return locs[i].Position.Column < locs[j].Position.Column
		})
	}
	return byFile, nil
}

func (o *Orchestrator) allowsURI(uriStr string) bool {
	path := utils.URIToFilePath(uriStr)
	if o.cfg.WorkspaceRoot != "" {
		if rel, err := filepath.Rel(o.cfg.WorkspaceRoot, path); err == nil {
			path = rel
		}
	}
	return o.cfg.AllowsPath(filepath.ToSlash(path))
}

// localFastPath computes the anchor file's edits syntactically when the
// file is native. Returns handled=false when the file must go through the
// index backend instead.
func (o *Orchestrator) localFastPath(ctx context.Context, snap *documents.Snapshot, anchor types.Position, newName string) ([]types.TextEdit, bool) {
	lang, ok := o.index.SymbolProviderLanguage(snap.URI)
	if !ok || lang != o.nativeLanguage() {
		return nil, false
	}
	edits, err := o.native.Rename(ctx, snap, anchor, newName)
	if err != nil {
		o.logger.Warn("syntactic rename failed for %s, using index edits: %v", snap.URI, err)
		return nil, false
	}
	return edits, true
}

type fileResult struct {
	uri   string
	edits []types.TextEdit
}

// synthesizeAll fans the per-file synthesis out over a bounded worker
// pool. A file's failure is logged and drops that file's edits only.
func (o *Orchestrator) synthesizeAll(ctx context.Context, byFile map[string][]RenameLocation, oldName, newName CrossLanguageName) (types.WorkspaceEdits, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jobs := make(chan string, len(byFile))
	results := make(chan fileResult, len(byFile))

	workers := o.workers
	if workers > len(byFile) {
		workers = len(byFile)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for uri := range jobs {
				edits := o.synthesizeFile(ctx, uri, byFile[uri], oldName, newName)
				if len(edits) > 0 {
					results <- fileResult{uri: uri, edits: edits}
				}
			}
		}()
	}

	for uri := range byFile {
		jobs <- uri
	}
	close(jobs)
	wg.Wait()
	close(results)

	edits := make(types.WorkspaceEdits)
	for r := range results {
		edits[r.uri] = r.edits
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return edits, nil
}

// synthesizeFile computes one file's edits. All failures are contained
// here: the worker always gets an answer, possibly empty.
func (o *Orchestrator) synthesizeFile(ctx context.Context, uriStr string, locations []RenameLocation, oldName, newName CrossLanguageName) []types.TextEdit {
	if ctx.Err() != nil {
		return nil
	}

	lang, ok := o.index.SymbolProviderLanguage(uriStr)
	if !ok {
		o.logger.Warn("no language recorded for %s, skipping", uriStr)
		return nil
	}

	native := o.nativeLanguage()
	oldSpelling, ok := oldName.NameForLanguage(lang, native)
	if !ok {
		o.logger.Debug("no %s spelling for the old name, skipping %s", lang, uriStr)
		return nil
	}
	newSpelling, ok := newName.NameForLanguage(lang, native)
	if !ok {
		o.logger.Debug("no %s spelling for the new name, skipping %s", lang, uriStr)
		return nil
	}

	snap, err := o.documents.Snapshot(ctx, uriStr)
	if err != nil {
		o.logger.Warn("cannot load %s: %v", uriStr, err)
		return nil
	}

	provider := o.foreign
	if lang == native {
		provider = o.native
	}
	edits, err := provider.EditsToRename(ctx, snap, locations, oldSpelling, newSpelling)
	if err != nil {
		o.logger.Warn("edit synthesis failed for %s: %v", uriStr, err)
		return nil
	}
	if types.EditsOverlap(edits) {
		o.logger.Warn("overlapping edits for %s, dropping the file", uriStr)
		return nil
	}
	return edits
}

// localOnly is the degraded path: rename within the anchor file using the
// syntactic backend alone. Only a completely unrenamable anchor is a hard
// failure.
func (o *Orchestrator) localOnly(ctx context.Context, snap *documents.Snapshot, req Request) (Result, error) {
	edits, err := o.native.Rename(ctx, snap, req.Position, req.NewName)
	if err != nil {
		if errors.IsCancellation(err) {
			return Result{}, err
		}
		return Result{}, errors.ErrNoRenamableName
	}
	if len(edits) == 0 {
		return Result{}, errors.ErrNoRenamableName
	}
	return Result{
		Edits:     types.WorkspaceEdits{snap.URI: edits},
		LocalOnly: true,
	}, nil
}
