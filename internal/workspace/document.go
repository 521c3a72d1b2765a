package workspace

import (
	"fmt"
	"os"

	"github.com/M7MD889/vscode-scss/internal/providers"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// Open reads a stylesheet from disk as an editor buffer.
func Open(path string) (providers.Document, error) {
	path = storage.NormalizePath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return providers.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return providers.Document{Path: path, Text: string(data)}, nil
}

// Offset converts a 0-based line and character into a byte offset of text,
// clamped to the buffer.
func Offset(text string, line, character int) int {
	return symbols.NewLineIndex(text).OffsetAt(symbols.Position{Line: line, Character: character})
}
