package extract

import "unicode/utf16"

// UTF16ColumnToByte converts a zero-based UTF-16 code-unit column (the
// unit LSP responses use) on the given line into a zero-based byte
// offset within that line, resolving the open question on column
// semantics: every tree-sitter offset in this package stays byte-based,
// and conversion happens only at this boundary.
func UTF16ColumnToByte(line string, utf16Col int) int {
	if utf16Col <= 0 {
		return 0
	}
	units := utf16.Encode([]rune(line))
	if utf16Col >= len(units) {
		return len(line)
	}
	runes := utf16.Decode(units[:utf16Col])
	byteLen := 0
	for _, r := range runes {
		byteLen += len(string(r))
	}
	return byteLen
}

// ByteToUTF16Column converts a zero-based byte offset on a line to a
// zero-based UTF-16 code-unit column, the inverse of
// UTF16ColumnToByte, used when building an LSP request from a
// tree-sitter point.
func ByteToUTF16Column(line string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(line) {
		byteOffset = len(line)
	}
	return len(utf16.Encode([]rune(line[:byteOffset])))
}
