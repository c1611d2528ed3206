package rename

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/index"
)

// Direction selects which way a name crosses the translation boundary.
type Direction int32

const (
	DirectionNativeToForeign Direction = iota
	DirectionForeignToNative
)

func (d Direction) String() string {
	if d == DirectionForeignToNative {
		return "foreign-to-native"
	}
	return "native-to-foreign"
}

// Translator is the external name-translation capability. Given a symbol's
// spelling in one language, an anchor position for context, and the
// symbol's kind, it produces the spelling in the other language.
type Translator interface {
	Translate(ctx context.Context, at types.Location, name CompoundName, kind index.SymbolKind, dir Direction) (CompoundName, error)
}

// SnakeCaseTranslator implements the binding convention used by generated
// foreign-language bindings: the native base name is spelled snake_case on
// the foreign side, and camelCase when read back. Method-like symbols keep
// their argument labels; property-like symbols translate the base name
// only.
type SnakeCaseTranslator struct{}

func (SnakeCaseTranslator) Translate(ctx context.Context, at types.Location, name CompoundName, kind index.SymbolKind, dir Direction) (CompoundName, error) {
	if err := ctx.Err(); err != nil {
		return CompoundName{}, err
	}
	if name.Base() == "" {
		return CompoundName{}, fmt.Errorf("cannot translate a name without a base")
	}

	var base string
	switch dir {
	case DirectionNativeToForeign:
		base = toSnakeCase(name.Base())
	case DirectionForeignToNative:
		base = toCamelCase(name.Base())
	default:
		return CompoundName{}, fmt.Errorf("unknown translation direction %d", dir)
	}

	if !kind.IsMethodLike() {
		return NewCompoundName(base), nil
	}
	return NewCompoundName(base, name.Parameters()...), nil
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toCamelCase(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(part)
			continue
		}
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// CrossLanguageName carries a symbol's spelling on both sides of the
// translation boundary. At least one side is always set; the definition
// language selects which side is authoritative for display.
type CrossLanguageName struct {
	nativeName         *CompoundName
	foreignName        *CompoundName
	DefinitionLanguage types.Language
}

// NativeName returns the native-language spelling, if known.
func (n CrossLanguageName) NativeName() (CompoundName, bool) {
	if n.nativeName == nil {
		return CompoundName{}, false
	}
	return *n.nativeName, true
}

// ForeignName returns the foreign-language spelling, if known.
func (n CrossLanguageName) ForeignName() (CompoundName, bool) {
	if n.foreignName == nil {
		return CompoundName{}, false
	}
	return *n.foreignName, true
}

// NameForLanguage returns the spelling to use in files of the given
// language.
func (n CrossLanguageName) NameForLanguage(lang types.Language, native types.Language) (CompoundName, bool) {
	if lang == native {
		return n.NativeName()
	}
	return n.ForeignName()
}

// DisplayName returns the authoritative spelling: the definition
// language's side when set, else whichever side is known.
func (n CrossLanguageName) DisplayName(native types.Language) string {
	if n.DefinitionLanguage == native {
		if name, ok := n.NativeName(); ok {
			return name.String()
		}
		if name, ok := n.ForeignName(); ok {
			return name.String()
		}
	} else {
		if name, ok := n.ForeignName(); ok {
			return name.String()
		}
		if name, ok := n.NativeName(); ok {
			return name.String()
		}
	}
	return ""
}

// NameResolver determines a symbol's spelling in the native language and,
// when the symbol is referenced across the boundary, its translated
// foreign spelling.
type NameResolver struct {
	index      index.SymbolIndex
	translator Translator
	native     types.Language
	logger     *common.SafeLogger
}

// NewNameResolver creates a resolver over the given index and translator.
func NewNameResolver(idx index.SymbolIndex, translator Translator, native types.Language) *NameResolver {
	return &NameResolver{
		index:      idx,
		translator: translator,
		native:     native,
		logger:     common.RenameLogger,
	}
}

const resolutionRoles = types.SymbolRoleDefinition | types.SymbolRoleDeclaration | types.SymbolRoleReference

// Resolve builds the CrossLanguageName for a symbol. With a non-empty
// override the override replaces the definition's recorded name (used to
// resolve the replacement name of a rename).
//
// Resolution requires exactly one recorded definition; anything else
// returns an AmbiguousDefinitionError and the rename degrades to
// local-only. A missing counterpart spelling is not an error: the
// corresponding side stays unset and files of that language are skipped.
func (r *NameResolver) Resolve(ctx context.Context, symbol string, override string) (CrossLanguageName, error) {
	defs, err := r.index.DefinitionsOf(ctx, symbol)
	if err != nil {
		return CrossLanguageName{}, err
	}
	if len(defs) != 1 {
		return CrossLanguageName{}, errors.NewAmbiguousDefinitionError(symbol, len(defs))
	}
	def := defs[0]

	defLang, ok := r.index.SymbolProviderLanguage(def.URI)
	if !ok {
		return CrossLanguageName{}, fmt.Errorf("no symbol provider language for %s", def.URI)
	}

	info, _ := r.index.SymbolInfo(symbol)
	recorded := override
	if recorded == "" {
		recorded = info.DisplayName
	}
	if recorded == "" {
		return CrossLanguageName{}, fmt.Errorf("no recorded name for %s", symbol)
	}
	definitionName := ParseCompoundName(recorded)

	result := CrossLanguageName{DefinitionLanguage: defLang}
	if defLang == r.native {
		result.nativeName = &definitionName
	} else {
		result.foreignName = &definitionName
	}

	// Find the first occurrence on the other side of the boundary; if
	// none exists the counterpart spelling stays unset.
	counterpart, found, err := r.firstOccurrenceInOtherLanguage(ctx, symbol, defLang)
	if err != nil {
		return CrossLanguageName{}, err
	}
	if !found {
		return result, nil
	}

	if defLang == r.native {
		// Translate at the definition's own position.
		foreign, err := r.translate(ctx, def.Location(), definitionName, info.Kind, DirectionNativeToForeign, symbol)
		if err != nil {
			return CrossLanguageName{}, err
		}
		result.foreignName = &foreign
	} else {
		// Translate at the native reference's position.
		native, err := r.translate(ctx, counterpart.Location(), definitionName, info.Kind, DirectionForeignToNative, symbol)
		if err != nil {
			return CrossLanguageName{}, err
		}
		result.nativeName = &native
	}
	return result, nil
}

// firstOccurrenceInOtherLanguage scans for the first occurrence that lives
// in a file on the other side of the boundary, short-circuiting on the
// first match.
func (r *NameResolver) firstOccurrenceInOtherLanguage(ctx context.Context, symbol string, defLang types.Language) (index.SymbolOccurrence, bool, error) {
	occs, err := r.index.OccurrencesOf(ctx, symbol, resolutionRoles)
	if err != nil {
		return index.SymbolOccurrence{}, false, err
	}
	wantNative := defLang != r.native
	for _, occ := range occs {
		lang, ok := r.index.SymbolProviderLanguage(occ.URI)
		if !ok {
			continue
		}
		if (lang == r.native) == wantNative {
			return occ, true, nil
		}
	}
	return index.SymbolOccurrence{}, false, nil
}

func (r *NameResolver) translate(ctx context.Context, at types.Location, name CompoundName, kind index.SymbolKind, dir Direction, symbol string) (CompoundName, error) {
	translated, err := r.translator.Translate(ctx, at, name, kind, dir)
	if err != nil {
		return CompoundName{}, errors.NewTranslationError(symbol, dir.String(), err)
	}
	if err := validateTranslated(translated); err != nil {
		return CompoundName{}, errors.NewTranslationError(symbol, dir.String(), err)
	}
	return translated, nil
}

// validateTranslated rejects malformed translator output.
func validateTranslated(name CompoundName) error {
	if name.Base() == "" {
		return fmt.Errorf("translated name has no base")
	}
	if strings.ContainsAny(name.Base(), " \t\n():") {
		return fmt.Errorf("translated base name %q contains structural characters", name.Base())
	}
	return nil
}
