package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/types"
)

// MemoryIndex implements SymbolIndex with occurrence-centric in-memory
// maps guarded by a single RWMutex. It can be populated programmatically or
// loaded from a persisted JSON index file.
type MemoryIndex struct {
	mutex sync.RWMutex

	// Occurrence-centric indexes for fast lookup
	occurrencesBySymbol map[string][]SymbolOccurrence // symbol ID -> occurrences across all documents
	occurrencesByURI    map[string][]SymbolOccurrence // document URI -> occurrences
	definitionIndex     map[string][]SymbolOccurrence // symbol ID -> definition occurrences
	languageByURI       map[string]types.Language     // document URI -> provider language
	symbolInfoIndex     map[string]SymbolInformation  // symbol ID -> metadata
}

// NewMemoryIndex creates an empty in-memory symbol index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		occurrencesBySymbol: make(map[string][]SymbolOccurrence),
		occurrencesByURI:    make(map[string][]SymbolOccurrence),
		definitionIndex:     make(map[string][]SymbolOccurrence),
		languageByURI:       make(map[string]types.Language),
		symbolInfoIndex:     make(map[string]SymbolInformation),
	}
}

// AddDocument registers a document and all of its occurrences, replacing
// any previous entry for the same URI.
func (m *MemoryIndex) AddDocument(doc Document) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if old, ok := m.occurrencesByURI[doc.URI]; ok {
		m.removeOccurrencesLocked(doc.URI, old)
	}

	m.languageByURI[doc.URI] = doc.Language
	occs := make([]SymbolOccurrence, len(doc.Occurrences))
	copy(occs, doc.Occurrences)
	for i := range occs {
		occs[i].URI = doc.URI
	}
	m.occurrencesByURI[doc.URI] = occs

	for _, occ := range occs {
		m.occurrencesBySymbol[occ.Symbol] = append(m.occurrencesBySymbol[occ.Symbol], occ)
		if occ.Roles.HasRole(types.SymbolRoleDefinition) {
			m.definitionIndex[occ.Symbol] = append(m.definitionIndex[occ.Symbol], occ)
		}
	}
}

// SetSymbolInfo records metadata for a symbol.
func (m *MemoryIndex) SetSymbolInfo(info SymbolInformation) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.symbolInfoIndex[info.Symbol] = info
}

func (m *MemoryIndex) removeOccurrencesLocked(uri string, old []SymbolOccurrence) {
	for _, occ := range old {
		m.occurrencesBySymbol[occ.Symbol] = filterOutURI(m.occurrencesBySymbol[occ.Symbol], uri)
		if len(m.occurrencesBySymbol[occ.Symbol]) == 0 {
			delete(m.occurrencesBySymbol, occ.Symbol)
		}
		m.definitionIndex[occ.Symbol] = filterOutURI(m.definitionIndex[occ.Symbol], uri)
		if len(m.definitionIndex[occ.Symbol]) == 0 {
			delete(m.definitionIndex, occ.Symbol)
		}
	}
	delete(m.occurrencesByURI, uri)
	delete(m.languageByURI, uri)
}

func filterOutURI(occs []SymbolOccurrence, uri string) []SymbolOccurrence {
	kept := occs[:0]
	for _, occ := range occs {
		if occ.URI != uri {
			kept = append(kept, occ)
		}
	}
	return kept
}

// OccurrencesOf returns every occurrence of symbol whose roles intersect
// the requested role set.
func (m *MemoryIndex) OccurrencesOf(ctx context.Context, symbol string, roles types.SymbolRole) ([]SymbolOccurrence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []SymbolOccurrence
	for _, occ := range m.occurrencesBySymbol[symbol] {
		if occ.Roles&roles != 0 {
			result = append(result, occ)
		}
	}
	return result, nil
}

// DefinitionsOf returns all definition occurrences of symbol.
func (m *MemoryIndex) DefinitionsOf(ctx context.Context, symbol string) ([]SymbolOccurrence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	defs := m.definitionIndex[symbol]
	result := make([]SymbolOccurrence, len(defs))
	copy(result, defs)
	return result, nil
}

// SymbolAt returns the occurrence whose range contains pos in the file.
func (m *MemoryIndex) SymbolAt(uri string, pos types.Position) (SymbolOccurrence, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, occ := range m.occurrencesByURI[uri] {
		// A cursor sitting just past the last character still counts.
		if occ.Range.Contains(pos) || pos == occ.Range.End {
			return occ, true
		}
	}
	return SymbolOccurrence{}, false
}

// SymbolProviderLanguage returns the indexed language for a file.
func (m *MemoryIndex) SymbolProviderLanguage(uri string) (types.Language, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	lang, ok := m.languageByURI[uri]
	return lang, ok
}

// SymbolInfo returns recorded metadata for a symbol.
func (m *MemoryIndex) SymbolInfo(symbol string) (SymbolInformation, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	info, ok := m.symbolInfoIndex[symbol]
	return info, ok
}

// Stats reports index sizes for logging and the CLI status output.
func (m *MemoryIndex) Stats() (documents int, occurrences int, symbols int) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, occs := range m.occurrencesByURI {
		occurrences += len(occs)
	}
	return len(m.occurrencesByURI), occurrences, len(m.occurrencesBySymbol)
}

// indexFile is the persisted JSON shape.
type indexFile struct {
	Documents []Document          `json:"documents"`
	Symbols   []SymbolInformation `json:"symbols,omitempty"`
}

// LoadFromFile replaces the index contents with a persisted JSON index.
func (m *MemoryIndex) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read index file: %w", err)
	}

	var file indexFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse index file: %w", err)
	}

	for _, doc := range file.Documents {
		m.AddDocument(doc)
	}
	for _, info := range file.Symbols {
		m.SetSymbolInfo(info)
	}

	docs, occs, syms := m.Stats()
	common.IndexLogger.Debug("Loaded index from %s: %d documents, %d occurrences, %d symbols", path, docs, occs, syms)
	return nil
}

// SaveToFile persists the index contents as JSON.
func (m *MemoryIndex) SaveToFile(path string) error {
	m.mutex.RLock()
	file := indexFile{}
	for uri, occs := range m.occurrencesByURI {
		file.Documents = append(file.Documents, Document{
			URI:         uri,
			Language:    m.languageByURI[uri],
			Occurrences: occs,
		})
	}
	for _, info := range m.symbolInfoIndex {
		file.Symbols = append(file.Symbols, info)
	}
	m.mutex.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}
	return nil
}
