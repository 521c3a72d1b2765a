// Package workspace ties a root directory to its symbol store, import graph,
// scanner and watcher, and routes documents across several roots.
package workspace

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/graph"
	"github.com/M7MD889/vscode-scss/internal/providers"
	"github.com/M7MD889/vscode-scss/internal/scanner"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/watcher"
	"github.com/google/uuid"
)

// Option configures a Workspace.
type Option func(*options)

type options struct {
	scanner  []scanner.Option
	debounce time.Duration
}

// WithScannerOptions passes options through to the workspace scanner.
func WithScannerOptions(opts ...scanner.Option) Option {
	return func(o *options) {
		o.scanner = append(o.scanner, opts...)
	}
}

// WithDebounce sets the quiet period Watch waits before rescanning.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// Workspace is one indexed root.
type Workspace struct {
	Root string
	ID   string

	store   *storage.Store
	graph   *graph.ImportGraph
	scanner *scanner.Scanner
	opts    options

	mu        sync.Mutex
	watcher   watcher.FileWatcher
	closeOnce sync.Once
}

// New creates an empty workspace for root. Nothing is read until Index or
// Scan is called.
func New(root string, settings *config.Settings, opts ...Option) (*Workspace, error) {
	if settings == nil {
		settings = config.Default()
	}
	if err := config.Validate(settings); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	w := &Workspace{
		Root:  storage.NormalizePath(root),
		ID:    uuid.NewString(),
		store: storage.New(),
		graph: graph.New(),
		opts:  o,
	}

	scanOpts := append([]scanner.Option{scanner.WithGraph(w.graph)}, o.scanner...)
	s, err := scanner.New(w.store, settings, scanOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}
	w.scanner = s
	return w, nil
}

func (w *Workspace) shortID() string {
	return w.ID[:8]
}

// Store exposes the workspace records for read-only consumers.
func (w *Workspace) Store() storage.Reader {
	return w.store
}

// Settings returns the current settings. Callers must not modify them.
func (w *Workspace) Settings() *config.Settings {
	return w.scanner.Settings()
}

// SetSettings validates and installs new settings. Call Index afterwards to
// apply discovery changes to the stored records.
func (w *Workspace) SetSettings(settings *config.Settings) error {
	if err := config.Validate(settings); err != nil {
		return err
	}
	w.scanner.SetSettings(settings)
	return nil
}

// Index discovers every stylesheet under the root and scans it together
// with the files already stored, so records of deleted files are dropped.
func (w *Workspace) Index(ctx context.Context) (scanner.Stats, error) {
	w.mu.Lock()
	fw := w.watcher
	w.mu.Unlock()
	if fw != nil {
		fw.Pause()
		defer fw.Resume()
	}

	progress := w.scanner.Progress()
	progress.OnDiscoveryStart()
	files, err := scanner.Discover(ctx, w.Root, w.Settings())
	if err != nil {
		return scanner.Stats{}, fmt.Errorf("failed to discover files: %w", err)
	}
	progress.OnDiscoveryComplete(len(files))

	for _, doc := range w.store.All() {
		files = append(files, doc.Path)
	}

	stats, err := w.scanner.Scan(ctx, files)
	log.Printf("[%s] Indexed %s: %d scanned, %d unchanged, %d removed, %d failed (%v)\n",
		w.shortID(), w.Root, stats.Scanned, stats.Unchanged, stats.Removed, stats.Failed, stats.Duration)
	return stats, err
}

// Scan rescans the given files only.
func (w *Workspace) Scan(ctx context.Context, paths []string) (scanner.Stats, error) {
	return w.scanner.Scan(ctx, paths)
}

// Completion offers the symbols visible at offset in doc.
func (w *Workspace) Completion(doc providers.Document, offset int) (*providers.CompletionList, error) {
	return providers.Completion(doc, offset, w.Settings(), w.store)
}

// Hover describes the symbol under offset.
func (w *Workspace) Hover(doc providers.Document, offset int) (*providers.HoverResult, error) {
	return providers.Hover(doc, offset, w.store)
}

// SignatureHelp describes the call enclosing offset.
func (w *Workspace) SignatureHelp(doc providers.Document, offset int) (*providers.SignatureHelpResult, error) {
	return providers.SignatureHelp(doc, offset, w.store)
}

// Definition locates the declaration of the symbol under offset.
func (w *Workspace) Definition(doc providers.Document, offset int) (*providers.Location, error) {
	return providers.Definition(doc, offset, w.store)
}

// Symbols searches the workspace for symbols matching query.
func (w *Workspace) Symbols(query string) []providers.SymbolInformation {
	return providers.WorkspaceSymbols(query, w.store, w.Root)
}

// Dependencies lists the files path imports directly.
func (w *Workspace) Dependencies(path string) []string {
	return w.graph.Dependencies(storage.NormalizePath(path))
}

// Dependents lists the files importing path directly.
func (w *Workspace) Dependents(path string) []string {
	return w.graph.Dependents(storage.NormalizePath(path))
}

// Cycles reports groups of files importing each other.
func (w *Workspace) Cycles() ([][]string, error) {
	return w.graph.Cycles()
}

// Query walks the import graph from req.Target.
func (w *Workspace) Query(ctx context.Context, req *graph.QueryRequest) (*graph.QueryResponse, error) {
	target := *req
	target.Target = storage.NormalizePath(req.Target)
	return w.graph.Query(ctx, &target)
}

// Watch rescans changed stylesheets until ctx is canceled or the workspace
// is closed. Calling it again while watching is a no-op.
func (w *Workspace) Watch(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	discovery, err := scanner.NewFileDiscovery(w.Root, w.Settings())
	if err != nil {
		return fmt.Errorf("failed to compile exclude patterns: %w", err)
	}

	opts := []watcher.Option{watcher.WithIgnore(discovery.Ignored)}
	if w.opts.debounce > 0 {
		opts = append(opts, watcher.WithDebounce(w.opts.debounce))
	}
	fw, err := watcher.New(w.Root, opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	err = fw.Start(ctx, func(files []string) {
		stats, err := w.scanner.Scan(ctx, files)
		if err != nil {
			log.Printf("[%s] Warning: rescan failed: %v\n", w.shortID(), err)
		}
		log.Printf("[%s] Rescanned %d changed files (%d removed)\n", w.shortID(), stats.Total(), stats.Removed)
	})
	if err != nil {
		fw.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	w.watcher = fw
	return nil
}

// Close stops watching and drops every record. Later calls do nothing.
func (w *Workspace) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		fw := w.watcher
		w.watcher = nil
		w.mu.Unlock()

		if fw != nil {
			err = fw.Stop()
		}
		w.scanner.Close()
		w.store.Clear()
		w.graph.Clear()
	})
	return err
}
