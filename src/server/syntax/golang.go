package syntax

import (
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	registerGrammar("go", golang.GetLanguage())
}

// Node types whose "name" field is the renamable base-name token.
var goDeclarationNodes = map[string]bool{
	"function_declaration": true,
	"method_declaration":   true,
	"type_spec":            true,
	"field_declaration":    true,
}
