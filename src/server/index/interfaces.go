package index

import (
	"context"

	"rename-gateway/src/internal/types"
)

// SymbolKind is the coarse classification the rename engine needs from the
// index: whether a symbol is method-like (arguments participate in its
// translated spelling) or property-like (base name only).
type SymbolKind int32

const (
	SymbolKindUnknown SymbolKind = iota
	SymbolKindFunction
	SymbolKindMethod
	SymbolKindConstructor
	SymbolKindProperty
	SymbolKindField
	SymbolKindVariable
	SymbolKindType
)

// IsMethodLike reports whether the symbol's arguments are part of its
// translated foreign spelling.
func (k SymbolKind) IsMethodLike() bool {
	switch k {
	case SymbolKindFunction, SymbolKindMethod, SymbolKindConstructor:
		return true
	default:
		return false
	}
}

// SymbolOccurrence represents a single recorded appearance of a symbol.
type SymbolOccurrence struct {
	// URI is the file the occurrence lives in
	URI string `json:"uri"`

	// Range covers the symbol's base name, in UTF-8 byte columns
	Range types.Range `json:"range"`

	// Symbol is the stable cross-file identity key
	Symbol string `json:"symbol"`

	// Roles indicates what the symbol does at this occurrence
	Roles types.SymbolRole `json:"roles"`
}

// Location returns the occurrence's position as a Location value.
func (o SymbolOccurrence) Location() types.Location {
	return types.Location{URI: o.URI, Range: o.Range}
}

// SymbolInformation contains per-symbol metadata.
type SymbolInformation struct {
	// Symbol is the stable identity key
	Symbol string `json:"symbol"`

	// DisplayName is the symbol's recorded name in its definition language,
	// possibly compound ("foo(a:b:)")
	DisplayName string `json:"display_name"`

	// Kind distinguishes method-like from property-like symbols
	Kind SymbolKind `json:"kind"`
}

// Document associates a file with its language and occurrences.
type Document struct {
	URI         string             `json:"uri"`
	Language    types.Language     `json:"language"`
	Occurrences []SymbolOccurrence `json:"occurrences"`
}

// SymbolIndex is the reverse-index contract the rename engine consumes.
// Implementations must be safe for concurrent readers; the engine never
// writes through this interface.
type SymbolIndex interface {
	// OccurrencesOf returns every occurrence of the symbol whose role set
	// intersects roles, across all indexed files.
	OccurrencesOf(ctx context.Context, symbol string, roles types.SymbolRole) ([]SymbolOccurrence, error)

	// DefinitionsOf returns all occurrences carrying the definition role.
	DefinitionsOf(ctx context.Context, symbol string) ([]SymbolOccurrence, error)

	// SymbolAt returns the symbol whose base-name range contains the
	// position, if any.
	SymbolAt(uri string, pos types.Position) (SymbolOccurrence, bool)

	// SymbolProviderLanguage returns the language of the index's symbol
	// provider for a file.
	SymbolProviderLanguage(uri string) (types.Language, bool)

	// SymbolInfo returns recorded metadata for a symbol.
	SymbolInfo(symbol string) (SymbolInformation, bool)
}
