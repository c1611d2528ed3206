// Package lspconv owns the conversion boundary between the engine's
// internal UTF-8 byte columns and the UTF-16 code-unit columns that
// editors consume. Nothing outside this package converts between the two.
package lspconv

import (
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"rename-gateway/src/internal/types"
)

// UTF16Column converts a UTF-8 byte offset within lineText into a UTF-16
// code-unit offset. Offsets past the end of the line clamp to the line's
// UTF-16 length.
func UTF16Column(lineText string, byteCol int32) uint32 {
	if byteCol < 0 {
		return 0
	}
	col := 0
	for i := 0; i < len(lineText) && i < int(byteCol); {
		r, size := utf8.DecodeRuneInString(lineText[i:])
		col += utf16.RuneLen(r)
		i += size
	}
	return uint32(col)
}

// UTF8Column converts a UTF-16 code-unit offset within lineText into a
// UTF-8 byte offset.
func UTF8Column(lineText string, utf16Col uint32) int32 {
	remaining := int(utf16Col)
	i := 0
	for i < len(lineText) && remaining > 0 {
		r, size := utf8.DecodeRuneInString(lineText[i:])
		remaining -= utf16.RuneLen(r)
		i += size
	}
	return int32(i)
}

// LineTextFunc returns the text of one line of one file, without the
// trailing newline. Implemented by the documents snapshot layer.
type LineTextFunc func(uriStr string, line int32) string

// ToProtocolPosition converts an internal position to a protocol position.
func ToProtocolPosition(lineText string, pos types.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(pos.Line),
		Character: UTF16Column(lineText, pos.Column),
	}
}

// ToProtocolRange converts an internal range to a protocol range.
func ToProtocolRange(uriStr string, r types.Range, lineText LineTextFunc) protocol.Range {
	return protocol.Range{
		Start: ToProtocolPosition(lineText(uriStr, r.Start.Line), r.Start),
		End:   ToProtocolPosition(lineText(uriStr, r.End.Line), r.End),
	}
}

// FromProtocolPosition converts a protocol position into an internal
// byte-column position.
func FromProtocolPosition(lineText string, pos protocol.Position) types.Position {
	return types.Position{
		Line:   int32(pos.Line),
		Column: UTF8Column(lineText, pos.Character),
	}
}

// ToWorkspaceEdit converts the engine's per-file edit table into a protocol
// WorkspaceEdit for client consumption.
func ToWorkspaceEdit(edits types.WorkspaceEdits, lineText LineTextFunc) *protocol.WorkspaceEdit {
	changes := make(map[uri.URI][]protocol.TextEdit, len(edits))
	for file, fileEdits := range edits {
		converted := make([]protocol.TextEdit, 0, len(fileEdits))
		for _, e := range fileEdits {
			converted = append(converted, protocol.TextEdit{
				Range:   ToProtocolRange(file, e.Range, lineText),
				NewText: e.NewText,
			})
		}
		changes[uri.URI(file)] = converted
	}
	return &protocol.WorkspaceEdit{Changes: changes}
}
