package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/storage"
)

// ErrUnknownRoot is returned when removing a root the manager does not hold.
var ErrUnknownRoot = errors.New("unknown workspace root")

// SettingsFunc returns the settings for a new workspace root.
type SettingsFunc func(root string) (*config.Settings, error)

// Manager owns one Workspace per root. Workspaces are created on first use.
type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	settings   SettingsFunc
	opts       []Option
}

// NewManager creates an empty manager. A nil settings func gives every root
// the default settings.
func NewManager(settings SettingsFunc, opts ...Option) *Manager {
	if settings == nil {
		settings = func(string) (*config.Settings, error) { return config.Default(), nil }
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		settings:   settings,
		opts:       opts,
	}
}

// Get returns the workspace for root, creating it if needed.
func (m *Manager) Get(root string) (*Workspace, error) {
	root = storage.NormalizePath(root)

	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.workspaces[root]; ok {
		return w, nil
	}

	settings, err := m.settings(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for %s: %w", root, err)
	}
	w, err := New(root, settings, m.opts...)
	if err != nil {
		return nil, err
	}
	m.workspaces[root] = w
	return w, nil
}

// For returns the workspace with the deepest root containing path.
func (m *Manager) For(path string) (*Workspace, bool) {
	path = storage.NormalizePath(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	var best *Workspace
	for root, w := range m.workspaces {
		if !contains(root, path) {
			continue
		}
		if best == nil || len(root) > len(best.Root) {
			best = w
		}
	}
	return best, best != nil
}

// Remove closes and forgets the workspace for root.
func (m *Manager) Remove(root string) error {
	root = storage.NormalizePath(root)

	m.mu.Lock()
	w, ok := m.workspaces[root]
	delete(m.workspaces, root)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoot, root)
	}
	return w.Close()
}

// Roots lists the managed roots, sorted.
func (m *Manager) Roots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	roots := make([]string, 0, len(m.workspaces))
	for root := range m.workspaces {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// Close closes every workspace.
func (m *Manager) Close() error {
	m.mu.Lock()
	workspaces := m.workspaces
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()

	var errs []error
	for _, w := range workspaces {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func contains(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
