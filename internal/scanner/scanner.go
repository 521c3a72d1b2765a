// Package scanner reads stylesheets from disk, extracts their symbols and
// keeps the Store and import graph up to date.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/M7MD889/vscode-scss/internal/graph"
	"github.com/M7MD889/vscode-scss/internal/storage"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/cespare/xxhash/v2"
	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"
)

// DefaultHashCacheSize bounds the number of content hashes kept for change
// detection.
const DefaultHashCacheSize = 50_000

// Scanner drives initial indexing and incremental rescans of a workspace.
// It is the only writer of its Store.
type Scanner struct {
	store    *storage.Store
	graph    *graph.ImportGraph
	settings atomic.Pointer[config.Settings]
	hashes   otter.Cache[string, uint64] // path -> xxhash of the stored content
	workers  int
	progress ProgressReporter
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds the number of files read and parsed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(s *Scanner) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithGraph makes the scanner maintain g instead of a private graph.
func WithGraph(g *graph.ImportGraph) Option {
	return func(s *Scanner) {
		if g != nil {
			s.graph = g
		}
	}
}

// New creates a scanner writing to store.
func New(store *storage.Store, settings *config.Settings, opts ...Option) (*Scanner, error) {
	hashes, err := otter.MustBuilder[string, uint64](DefaultHashCacheSize).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create hash cache: %w", err)
	}

	s := &Scanner{
		store:    store,
		graph:    graph.New(),
		hashes:   hashes,
		workers:  runtime.GOMAXPROCS(0),
		progress: NoOpProgressReporter{},
	}
	s.settings.Store(settings.Clone())

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Settings returns the current settings. Callers must not modify them.
func (s *Scanner) Settings() *config.Settings {
	return s.settings.Load()
}

// SetSettings swaps the settings used by later scans. Cached hashes are
// dropped so the next scan re-parses every file under the new policy.
func (s *Scanner) SetSettings(settings *config.Settings) {
	s.settings.Store(settings.Clone())
	s.hashes.Clear()
}

// Graph returns the import graph the scanner maintains.
func (s *Scanner) Graph() *graph.ImportGraph {
	return s.graph
}

// Progress returns the progress reporter.
func (s *Scanner) Progress() ProgressReporter {
	return s.progress
}

type fileStatus int

const (
	statusScanned fileStatus = iota
	statusUnchanged
	statusRemoved
	statusFailed
	statusSkipped // context canceled before the file was read
)

type fileResult struct {
	status fileStatus
	err    error
	follow []string // imported files found on disk but not yet stored
}

// Scan reads and indexes paths. Files are processed concurrently; a file
// that cannot be read is dropped from the store and never fails the batch.
// With ShowErrors set, parse errors leave the previous record in place and
// are returned joined once every file has been processed.
func (s *Scanner) Scan(ctx context.Context, paths []string) (Stats, error) {
	startTime := time.Now()
	settings := s.Settings()

	var (
		stats Stats
		errs  []error
	)

	queued := make(map[string]bool)
	wave := enqueue(nil, paths, queued)

	for len(wave) > 0 && ctx.Err() == nil {
		s.progress.OnScanStart(len(wave))

		results := make([]fileResult, len(wave))
		var g errgroup.Group
		g.SetLimit(s.workers)
		for i, path := range wave {
			g.Go(func() error {
				if ctx.Err() != nil {
					results[i] = fileResult{status: statusSkipped}
					return nil
				}
				results[i] = s.scanFile(path, settings)
				s.progress.OnFileScanned(path)
				return nil
			})
		}
		_ = g.Wait()

		var next []string
		for _, r := range results {
			switch r.status {
			case statusScanned:
				stats.Scanned++
			case statusUnchanged:
				stats.Unchanged++
			case statusRemoved:
				stats.Removed++
			case statusFailed:
				stats.Failed++
				errs = append(errs, r.err)
			case statusSkipped:
				continue
			}
			if settings.ScanImportedFiles {
				next = enqueue(next, r.follow, queued)
			}
		}
		wave = next
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	stats.Duration = time.Since(startTime)
	s.progress.OnComplete(&stats)
	return stats, errors.Join(errs...)
}

// enqueue appends the normalized paths not queued yet.
func enqueue(dst, paths []string, queued map[string]bool) []string {
	for _, p := range paths {
		key := storage.NormalizePath(p)
		if queued[key] {
			continue
		}
		queued[key] = true
		dst = append(dst, key)
	}
	return dst
}

func (s *Scanner) scanFile(path string, settings *config.Settings) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		s.forget(path)
		return fileResult{status: statusRemoved}
	}

	sum := xxhash.Sum64(data)
	if prev, ok := s.hashes.Get(path); ok && prev == sum {
		if doc, ok := s.store.Get(path); ok {
			return fileResult{status: statusUnchanged, follow: s.updateEdges(doc)}
		}
	}

	doc, err := symbols.Extract(path, string(data), symbols.ExtractOptions{
		Offset: symbols.NoOffset,
		Strict: settings.ShowErrors,
	})
	if err != nil {
		return fileResult{status: statusFailed, err: err}
	}

	s.store.Set(doc)
	s.hashes.Set(path, sum)
	return fileResult{status: statusScanned, follow: s.updateEdges(doc)}
}

// forget drops everything known about a file that can no longer be read.
func (s *Scanner) forget(path string) {
	s.store.Delete(path)
	s.graph.Remove(path)
	s.hashes.Delete(path)
}

// updateEdges records the import edges of doc in the graph and returns the
// imported files that exist on disk but are not stored yet.
func (s *Scanner) updateEdges(doc *symbols.Document) []string {
	var targets, follow []string
	for _, imp := range doc.Imports {
		if !imp.Followable() {
			continue
		}
		target, onDisk := resolveImport(imp.Filepath, s.store)
		targets = append(targets, target)
		if onDisk {
			if _, stored := s.store.Get(target); !stored {
				follow = append(follow, target)
			}
		}
	}
	s.graph.Update(doc.Path, targets)
	return follow
}

// resolveImport picks the file an import refers to: a stored candidate
// first, then one present on disk. Unresolved imports keep their target so
// the edge is still recorded.
func resolveImport(target string, store storage.Reader) (string, bool) {
	candidates := symbols.ImportCandidates(target)
	for _, candidate := range candidates {
		if _, ok := store.Get(candidate); ok {
			return storage.NormalizePath(candidate), true
		}
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return storage.NormalizePath(candidate), true
		}
	}
	return storage.NormalizePath(target), false
}

// Close releases the hash cache.
func (s *Scanner) Close() {
	s.hashes.Close()
}
