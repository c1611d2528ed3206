package syntax

import (
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	registerGrammar("python", python.GetLanguage())
}

var pythonDeclarationNodes = map[string]bool{
	"function_definition": true,
	"class_definition":    true,
}
