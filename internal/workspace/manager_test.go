package workspace

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Manager:
// - Get creates a workspace once per normalized root
// - For routes a path to the deepest containing root, or reports none
// - settings come from the settings func; its errors are wrapped
// - Remove closes the workspace and rejects unknown roots
// - Close empties the manager

func TestManager_GetAndFor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m := NewManager(nil)
	defer m.Close()

	outer, err := m.Get(dir)
	require.NoError(t, err)
	again, err := m.Get(filepath.Join(dir, "x", ".."))
	require.NoError(t, err)
	assert.Same(t, outer, again)

	inner, err := m.Get(filepath.Join(dir, "packages", "ui"))
	require.NoError(t, err)
	assert.NotEqual(t, outer.ID, inner.ID)

	tests := []struct {
		name     string
		path     string
		expected *Workspace
	}{
		{"outer file", filepath.Join(dir, "main.scss"), outer},
		{"inner file", filepath.Join(dir, "packages", "ui", "_button.scss"), inner},
		{"sibling of inner", filepath.Join(dir, "packages", "ui-kit", "a.scss"), outer},
		{"outside", filepath.Join(filepath.Dir(dir), "elsewhere.scss"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := m.For(tt.path)
			if tt.expected == nil {
				assert.False(t, ok)
				assert.Nil(t, w)
				return
			}
			require.True(t, ok)
			assert.Same(t, tt.expected, w)
		})
	}

	assert.Equal(t, []string{dir, filepath.Join(dir, "packages", "ui")}, m.Roots())
}

func TestManager_Settings(t *testing.T) {
	t.Parallel()

	failure := errors.New("boom")
	m := NewManager(func(root string) (*config.Settings, error) {
		if filepath.Base(root) == "broken" {
			return nil, failure
		}
		s := config.Default()
		s.ScanImportedFiles = false
		return s, nil
	})
	defer m.Close()

	w, err := m.Get(t.TempDir())
	require.NoError(t, err)
	assert.False(t, w.Settings().ScanImportedFiles)

	_, err = m.Get(filepath.Join(t.TempDir(), "broken"))
	assert.ErrorIs(t, err, failure)
}

func TestManager_Remove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.scss", "$a: 1;\n")

	m := NewManager(nil)
	w, err := m.Get(dir)
	require.NoError(t, err)
	_, err = w.Scan(t.Context(), []string{filepath.Join(dir, "a.scss")})
	require.NoError(t, err)

	require.NoError(t, m.Remove(dir))
	_, ok := w.Store().Get(filepath.Join(dir, "a.scss"))
	assert.False(t, ok, "removed workspaces are closed")
	assert.Empty(t, m.Roots())

	assert.ErrorIs(t, m.Remove(dir), ErrUnknownRoot)

	_, err = m.Get(dir)
	require.NoError(t, err)
	require.NoError(t, m.Close())
	assert.Empty(t, m.Roots())
}
