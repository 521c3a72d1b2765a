package providers

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir   string
	store *storage.Store
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir(), store: storage.New()}
	for name, text := range files {
		doc, err := symbols.Extract(f.path(name), text, symbols.ExtractOptions{Offset: symbols.NoOffset})
		require.NoError(t, err)
		f.store.Set(doc)
	}
	return f
}

func (f *fixture) path(name string) string {
	return filepath.Join(f.dir, filepath.FromSlash(name))
}

// buffer returns an editor buffer for name with the cursor at the "|" marker.
func (f *fixture) buffer(t *testing.T, name, text string) (Document, int) {
	t.Helper()
	offset := strings.Index(text, "|")
	require.GreaterOrEqual(t, offset, 0, "missing cursor marker")
	return Document{Path: f.path(name), Text: text[:offset] + text[offset+1:]}, offset
}

func labels(list *CompletionList) []string {
	var out []string
	for _, item := range list.Items {
		out = append(out, item.Label)
	}
	return out
}
