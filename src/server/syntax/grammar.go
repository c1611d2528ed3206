// Package syntax implements the syntactic rename backend: tree-sitter
// anchor resolution plus a lexical occurrence classifier. It is the
// capability the orchestrator uses for native-language files and for the
// local fallback when the index cannot help.
package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"

	"rename-gateway/src/internal/types"
)

// grammars maps language names to their tree-sitter grammars.
// Populated by init() functions in per-language files.
var grammars = map[types.Language]*sitter.Language{}

func registerGrammar(lang types.Language, grammar *sitter.Language) {
	grammars[lang] = grammar
}

// GrammarFor returns the tree-sitter grammar for a language, if one is
// registered.
func GrammarFor(lang types.Language) (*sitter.Language, bool) {
	g, ok := grammars[lang]
	return g, ok
}

// NewParser creates a fresh parser for the language. Each goroutine must
// use its own parser.
func NewParser(lang types.Language) (*sitter.Parser, bool) {
	g, ok := grammars[lang]
	if !ok {
		return nil, false
	}
	p := sitter.NewParser()
	p.SetLanguage(g)
	return p, true
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
