package syntax

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"rename-gateway/src/config"
	"rename-gateway/src/internal/common"
	"rename-gateway/src/internal/errors"
	"rename-gateway/src/internal/types"
	"rename-gateway/src/server/documents"
	"rename-gateway/src/utils"
)

// TreeAnchorResolver locates the base-name token of the renamable
// construct around a cursor position. A cursor on an argument label or a
// parameter token climbs to the enclosing call or declaration and anchors
// on its name; a cursor on a plain identifier anchors there. Files without
// a registered grammar fall back to a lexical word scan.
type TreeAnchorResolver struct {
	cfg    *config.Config
	logger *common.SafeLogger
}

func NewTreeAnchorResolver(cfg *config.Config) *TreeAnchorResolver {
	return &TreeAnchorResolver{cfg: cfg, logger: common.RenameLogger}
}

var identifierNodes = map[string]bool{
	"identifier":          true,
	"field_identifier":    true,
	"type_identifier":     true,
	"property_identifier": true,
}

var callNodes = map[string]bool{
	"call_expression": true,
	"call":            true,
}

func (r *TreeAnchorResolver) ResolveAnchor(ctx context.Context, snap *documents.Snapshot, pos types.Position) (types.Range, string, error) {
	if err := ctx.Err(); err != nil {
		return types.Range{}, "", err
	}

	lang, ok := r.cfg.LanguageForPath(utils.URIToFilePath(snap.URI))
	if !ok {
		return lexicalWordAt(snap, pos)
	}
	parser, ok := NewParser(lang)
	if !ok {
		return lexicalWordAt(snap, pos)
	}

	source := []byte(snap.Text)
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		r.logger.Debug("parse failed for %s: %v", snap.URI, err)
		return lexicalWordAt(snap, pos)
	}
	defer tree.Close()

	offset, ok := snap.OffsetAt(pos)
	if !ok {
		return types.Range{}, "", errors.ErrNoRenamableName
	}
	// A cursor sitting just past the last character of a token still
	// refers to it.
	if offset > 0 && offset < len(source) && !isIdentByte(source[offset]) && isIdentByte(source[offset-1]) {
		offset--
	} else if offset == len(source) && offset > 0 && isIdentByte(source[offset-1]) {
		offset--
	}

	node := smallestNodeAt(tree.RootNode(), uint32(offset))
	if node == nil {
		return lexicalWordAt(snap, pos)
	}

	if identifierNodes[node.Type()] {
		// A parameter or label token anchors on the enclosing construct's
		// base name; any other identifier anchors on itself.
		if inParameterList(node) {
			if base := enclosingBaseToken(node); base != nil && base != node {
				return r.tokenResult(snap, base, source)
			}
		}
		return r.tokenResult(snap, node, source)
	}
	if base := enclosingBaseToken(node); base != nil {
		return r.tokenResult(snap, base, source)
	}
	return lexicalWordAt(snap, pos)
}

func (r *TreeAnchorResolver) tokenResult(snap *documents.Snapshot, node *sitter.Node, source []byte) (types.Range, string, error) {
	rng := snap.RangeOf(int(node.StartByte()), int(node.EndByte()))
	return rng, nodeText(node, source), nil
}

// smallestNodeAt descends to the innermost named node covering offset.
func smallestNodeAt(n *sitter.Node, offset uint32) *sitter.Node {
	if n == nil || offset < n.StartByte() || offset >= n.EndByte() {
		return nil
	}
	for {
		var next *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.StartByte() <= offset && offset < c.EndByte() {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

// inParameterList reports whether the node sits inside a declaration's
// parameter list, stopping at the nearest enclosing construct boundary.
func inParameterList(node *sitter.Node) bool {
	for n := node.Parent(); n != nil; n = n.Parent() {
		switch n.Type() {
		case "parameter_list", "parameters", "lambda_parameters":
			return true
		}
		if callNodes[n.Type()] || goDeclarationNodes[n.Type()] || pythonDeclarationNodes[n.Type()] {
			return false
		}
	}
	return false
}

// enclosingBaseToken climbs from a node to the base-name token of the
// nearest enclosing call or declaration, when the node participates in
// one.
func enclosingBaseToken(node *sitter.Node) *sitter.Node {
	for n := node; n != nil; n = n.Parent() {
		if callNodes[n.Type()] {
			if base := callBaseToken(n); base != nil {
				return base
			}
		}
		if goDeclarationNodes[n.Type()] || pythonDeclarationNodes[n.Type()] {
			if name := n.ChildByFieldName("name"); name != nil {
				return name
			}
		}
	}
	return nil
}

// callBaseToken resolves a call node's function expression down to its
// rightmost identifier (the selector field for x.f(...) forms).
func callBaseToken(call *sitter.Node) *sitter.Node {
	fn := call.ChildByFieldName("function")
	for fn != nil {
		switch fn.Type() {
		case "selector_expression":
			fn = fn.ChildByFieldName("field")
		case "attribute":
			fn = fn.ChildByFieldName("attribute")
		default:
			if identifierNodes[fn.Type()] {
				return fn
			}
			return nil
		}
	}
	return nil
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// lexicalWordAt finds the identifier run containing the position.
func lexicalWordAt(snap *documents.Snapshot, pos types.Position) (types.Range, string, error) {
	line := snap.LineText(pos.Line)
	col := int(pos.Column)
	if col > len(line) {
		col = len(line)
	}
	// Tolerate a cursor just past the word.
	if col > 0 && (col == len(line) || !isIdentByte(line[col])) && isIdentByte(line[col-1]) {
		col--
	}
	if col >= len(line) || !isIdentByte(line[col]) {
		return types.Range{}, "", errors.ErrNoRenamableName
	}

	start := col
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isIdentByte(line[end]) {
		end++
	}
	if start < end && line[start] >= '0' && line[start] <= '9' {
		return types.Range{}, "", errors.ErrNoRenamableName
	}

	rng := types.Range{
		Start: types.Position{Line: pos.Line, Column: int32(start)},
		End:   types.Position{Line: pos.Line, Column: int32(end)},
	}
	return rng, line[start:end], nil
}
