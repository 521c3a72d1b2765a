package providers

import (
	"path/filepath"
	"testing"

	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for WorkspaceSymbols:
// - substring search across files returns name, kind and location
// - matching ignores case; substring hits rank above fuzzy ones
// - an empty query returns every symbol
// - documents outside the root are skipped

func TestWorkspaceSymbols_Mix(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"a.scss": "@mixin mixin-a() {}\n",
		"b.scss": "$other: 1;\n@mixin mixin-b($x) {}\n",
	})

	results := WorkspaceSymbols("mix", f.store, f.dir)
	require.Len(t, results, 2)

	assert.Equal(t, SymbolInformation{
		Name: "mixin-a",
		Kind: symbols.KindMixin,
		Location: Location{
			Path: f.path("a.scss"),
			Range: Range{
				Start: symbols.Position{Line: 0, Character: 7},
				End:   symbols.Position{Line: 0, Character: 14},
			},
		},
	}, results[0])
	assert.Equal(t, "mixin-b", results[1].Name)
	assert.Equal(t, symbols.KindMixin, results[1].Kind)
	assert.Equal(t, f.path("b.scss"), results[1].Location.Path)
}

func TestWorkspaceSymbols_Ranking(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"a.scss": "$Button-Size: 1;\n@function bt-size() { @return 1; }\n@mixin unrelated() {}\n",
	})

	results := WorkspaceSymbols("BUTTON", f.store, f.dir)
	require.Len(t, results, 1)
	assert.Equal(t, "$Button-Size", results[0].Name)
	assert.Equal(t, symbols.KindVariable, results[0].Kind)

	results = WorkspaceSymbols("btsize", f.store, f.dir)
	require.Len(t, results, 2)
	assert.Equal(t, "bt-size", results[0].Name, "closer fuzzy match ranks first")

	results = WorkspaceSymbols("size", f.store, f.dir)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEqual(t, "unrelated", r.Name)
	}
}

func TestWorkspaceSymbols_EmptyQueryAndRoot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, map[string]string{
		"app/a.scss":    "$a: 1;\n@mixin m() {}\n",
		"shared/b.scss": "@function f() { @return 1; }\n",
	})

	all := WorkspaceSymbols("", f.store, f.dir)
	assert.Len(t, all, 3)

	app := WorkspaceSymbols("", f.store, filepath.Join(f.dir, "app"))
	require.Len(t, app, 2)
	for _, r := range app {
		assert.Equal(t, f.path("app/a.scss"), r.Location.Path)
	}

	// Test: a sibling directory sharing a prefix is not under the root
	sibling := storage.New()
	doc, err := symbols.Extract(filepath.Join(f.dir, "app-other", "c.scss"), "$c: 1;\n", symbols.ExtractOptions{Offset: symbols.NoOffset})
	require.NoError(t, err)
	sibling.Set(doc)
	assert.Empty(t, WorkspaceSymbols("", sibling, filepath.Join(f.dir, "app")))
}
