package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/providers"
	"github.com/M7MD889/vscode-scss/internal/scanner"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/M7MD889/vscode-scss/internal/workspace"
)

// ErrInvalidPosition is returned for malformed LINE:COL arguments.
var ErrInvalidPosition = errors.New("invalid position")

// rootDir returns the workspace root from --root or the working directory.
func (o *rootOptions) rootDir() (string, error) {
	if o.root != "" {
		return storage.NormalizePath(o.root), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// loadSettings reads --config when given, otherwise the settings under root.
func (o *rootOptions) loadSettings(root string) (*config.Settings, error) {
	if o.configFile != "" {
		return config.NewFileLoader(o.configFile).Load()
	}
	return config.LoadFromDir(root)
}

// newWorkspace creates an empty workspace for the root with its settings.
func (o *rootOptions) newWorkspace(progress scanner.ProgressReporter) (*workspace.Workspace, error) {
	root, err := o.rootDir()
	if err != nil {
		return nil, err
	}
	settings, err := o.loadSettings(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return workspace.New(root, settings, workspace.WithScannerOptions(scanner.WithProgress(progress)))
}

// openWorkspace indexes the workspace root. Parse errors reported in strict
// mode are logged; the remaining files are still queryable.
func (o *rootOptions) openWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	w, err := o.newWorkspace(nil)
	if err != nil {
		return nil, err
	}
	if _, err := w.Index(ctx); err != nil {
		if ctx.Err() != nil {
			w.Close()
			return nil, ctx.Err()
		}
		log.Printf("Warning: %v\n", err)
	}
	return w, nil
}

// parsePosition parses a 1-based LINE:COL argument into a 0-based line and
// character.
func parsePosition(arg string) (int, int, error) {
	lineStr, colStr, ok := strings.Cut(arg, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w %q: expected LINE:COL", ErrInvalidPosition, arg)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("%w %q: line must be a positive number", ErrInvalidPosition, arg)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("%w %q: column must be a positive number", ErrInvalidPosition, arg)
	}
	return line - 1, col - 1, nil
}

// readDocument loads path from disk, or from in when stdin is set.
func readDocument(path string, stdin bool, in io.Reader) (providers.Document, error) {
	if !stdin {
		return workspace.Open(path)
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return providers.Document{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return providers.Document{Path: storage.NormalizePath(path), Text: string(data)}, nil
}

// printJSON writes v as indented JSON.
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// displayPath shows path relative to root when it lies under it.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// formatLocation renders a path with a 1-based line and column.
func formatLocation(root, path string, pos symbols.Position) string {
	return fmt.Sprintf("%s:%d:%d", displayPath(root, path), pos.Line+1, pos.Character+1)
}
