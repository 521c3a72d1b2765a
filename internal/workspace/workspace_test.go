package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/graph"
	"github.com/M7MD889/vscode-scss/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Workspace:
// - Index discovers stylesheets, skips excluded directories and records imports
// - providers answer through the workspace store
// - re-indexing drops records of deleted files
// - invalid settings are rejected by New and SetSettings
// - graph queries and cycles use normalized paths
// - Watch rescans files created after it starts
// - Close empties the store

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func newWorkspace(t *testing.T, dir string, opts ...Option) *Workspace {
	t.Helper()
	w, err := New(dir, config.Default(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWorkspace_Index(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := writeFile(t, dir, "main.scss", "@import 'vars';\n.a { color: $primary; }\n")
	vars := writeFile(t, dir, "_vars.scss", "$primary: red;\n@mixin pad($n) {}\n")
	writeFile(t, dir, "node_modules/pkg/_x.scss", "$vendor: 1;\n")

	w := newWorkspace(t, dir)
	stats, err := w.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 0, stats.Failed)

	_, ok := w.Store().Get(main)
	assert.True(t, ok)
	assert.Equal(t, []string{vars}, w.Dependencies(main))
	assert.Equal(t, []string{main}, w.Dependents(vars))

	t.Run("providers", func(t *testing.T) {
		text := "@import 'vars';\n.a { color: $"
		list, err := w.Completion(providers.Document{Path: main, Text: text}, len(text))
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "$primary", list.Items[0].Label)

		text = "@import 'vars';\n.a { @include pad(1); }\n"
		hover, err := w.Hover(providers.Document{Path: main, Text: text}, strings.Index(text, "pad")+1)
		require.NoError(t, err)
		require.NotNil(t, hover)
		assert.Equal(t, vars, hover.Definition.Path)

		symbols := w.Symbols("prim")
		require.Len(t, symbols, 1)
		assert.Equal(t, "$primary", symbols[0].Name)
	})

	t.Run("reindex drops deleted files", func(t *testing.T) {
		require.NoError(t, os.Remove(vars))
		stats, err := w.Index(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Removed)
		assert.Equal(t, 1, stats.Unchanged)

		_, ok := w.Store().Get(vars)
		assert.False(t, ok)
		assert.Empty(t, w.Symbols("prim"))
	})
}

func TestWorkspace_Settings(t *testing.T) {
	t.Parallel()

	invalid := config.Default()
	invalid.ScannerDepth = -1

	_, err := New(t.TempDir(), invalid)
	assert.ErrorIs(t, err, config.ErrInvalidDepth)

	w := newWorkspace(t, t.TempDir())
	assert.ErrorIs(t, w.SetSettings(invalid), config.ErrInvalidDepth)

	updated := config.Default()
	updated.SuggestMixins = false
	require.NoError(t, w.SetSettings(updated))
	assert.False(t, w.Settings().SuggestMixins)
}

func TestWorkspace_Graph(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeFile(t, dir, "a.scss", "@import 'b';\n")
	b := writeFile(t, dir, "b.scss", "@import 'a';\n")
	c := writeFile(t, dir, "c.scss", "@import 'a';\n")

	w := newWorkspace(t, dir)
	_, err := w.Index(context.Background())
	require.NoError(t, err)

	cycles, err := w.Cycles()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{a, b}}, cycles)

	resp, err := w.Query(context.Background(), &graph.QueryRequest{
		Operation: graph.OperationDependents,
		Target:    filepath.Join(dir, "sub", "..", "a.scss"),
		Depth:     2,
	})
	require.NoError(t, err)

	var paths []string
	for _, r := range resp.Results {
		paths = append(paths, r.Path)
	}
	assert.ElementsMatch(t, []string{b, c}, paths)
}

func TestWorkspace_Watch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.scss", "$a: 1;\n")

	w := newWorkspace(t, dir, WithDebounce(50*time.Millisecond))
	_, err := w.Index(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Watch(ctx))
	require.NoError(t, w.Watch(ctx), "watching twice is a no-op")
	time.Sleep(50 * time.Millisecond)

	theme := writeFile(t, dir, "theme.scss", "$accent: blue;\n")
	require.Eventually(t, func() bool {
		_, ok := w.Store().Get(theme)
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, w.Close())
	_, ok := w.Store().Get(theme)
	assert.False(t, ok)
}

func TestOpenAndOffset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "a.scss", "$a: 1;\n.é { b: $a; }\n")

	doc, err := Open(filepath.Join(dir, ".", "a.scss"))
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)

	assert.Equal(t, 0, Offset(doc.Text, 0, 0))
	assert.Equal(t, strings.Index(doc.Text, "$a;"), Offset(doc.Text, 1, 8))
	assert.Equal(t, len("$a: 1;"), Offset(doc.Text, 0, 99), "clamped to the line")
	assert.Equal(t, len(doc.Text), Offset(doc.Text, 99, 0))

	_, err = Open(filepath.Join(dir, "missing.scss"))
	assert.Error(t, err)
}
