package rename

import (
	"fmt"
	"strings"
	"unicode"
)

// Parameter is one argument label of a compound name: either a named label
// or the wildcard (`_`, an unlabeled argument).
type Parameter struct {
	name string
}

// NamedParameter creates a named argument label. Empty and "_" inputs
// collapse to the wildcard.
func NamedParameter(name string) Parameter {
	if name == "_" {
		return Parameter{}
	}
	return Parameter{name: name}
}

// WildcardParameter creates the unlabeled-argument parameter.
func WildcardParameter() Parameter {
	return Parameter{}
}

// IsWildcard reports whether the parameter is unlabeled.
func (p Parameter) IsWildcard() bool {
	return p.name == ""
}

// Name returns the label text; empty for the wildcard.
func (p Parameter) Name() string {
	return p.name
}

func (p Parameter) String() string {
	if p.IsWildcard() {
		return "_"
	}
	return p.name
}

// CompoundName is a possibly-labeled name: a base name plus an ordered list
// of argument labels ("resize(width:height:)", "close"). Immutable once
// parsed.
type CompoundName struct {
	base   string
	params []Parameter
}

// NewCompoundName builds a compound name from parts.
func NewCompoundName(base string, params ...Parameter) CompoundName {
	return CompoundName{base: base, params: params}
}

// ParseCompoundName parses a textual name. Without a "(" the whole string
// is the base name. Otherwise the text between "(" and the matching ")" —
// or the end of the string when the ")" is missing — is split on ":"; the
// trailing segment after the last colon is dropped and empty or "_"
// segments become wildcards.
func ParseCompoundName(s string) CompoundName {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return CompoundName{base: s}
	}

	base := s[:open]
	inner := s[open+1:]
	if close := strings.IndexByte(inner, ')'); close >= 0 {
		inner = inner[:close]
	}

	segments := strings.Split(inner, ":")
	segments = segments[:len(segments)-1]

	params := make([]Parameter, 0, len(segments))
	for _, seg := range segments {
		params = append(params, NamedParameter(seg))
	}
	return CompoundName{base: base, params: params}
}

// Base returns the base name.
func (n CompoundName) Base() string {
	return n.base
}

// Parameters returns the ordered argument labels.
func (n CompoundName) Parameters() []Parameter {
	return n.params
}

// ParameterAt returns the parameter at index, or false when out of bounds.
func (n CompoundName) ParameterAt(i int) (Parameter, bool) {
	if i < 0 || i >= len(n.params) {
		return Parameter{}, false
	}
	return n.params[i], true
}

// IsCompound reports whether the name carries argument labels.
func (n CompoundName) IsCompound() bool {
	return len(n.params) > 0
}

// String renders the canonical spelling: "base(l1:l2:)" with "_" for
// wildcards, or just the base name when there are no parameters.
func (n CompoundName) String() string {
	if len(n.params) == 0 {
		return n.base
	}
	var b strings.Builder
	b.WriteString(n.base)
	b.WriteByte('(')
	for _, p := range n.params {
		b.WriteString(p.String())
		b.WriteByte(':')
	}
	b.WriteByte(')')
	return b.String()
}

// ValidateNewName rejects replacement names that could never be applied:
// empty input or a base name that is not an identifier.
func ValidateNewName(s string) error {
	name := ParseCompoundName(s)
	base := name.Base()
	if base == "" {
		return fmt.Errorf("new name cannot be empty")
	}
	for i, ch := range base {
		if unicode.IsLetter(ch) || ch == '_' {
			continue
		}
		if i > 0 && unicode.IsDigit(ch) {
			continue
		}
		return fmt.Errorf("invalid identifier: %q", base)
	}
	return nil
}
