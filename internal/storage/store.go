// Package storage holds the symbol records of one workspace in memory, keyed
// by normalized absolute path.
package storage

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/M7MD889/vscode-scss/internal/symbols"
)

// Reader is the read side of a Store. Resolution and the providers only need
// this.
type Reader interface {
	Get(path string) (*symbols.Document, bool)
	All() []*symbols.Document
}

// Store maps document paths to their symbol records. Records are immutable
// once stored; Set replaces the whole record so readers never observe a
// partially updated document.
type Store struct {
	mu   sync.RWMutex // Protects docs
	docs map[string]*symbols.Document
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]*symbols.Document)}
}

// NormalizePath returns the key a path is stored under.
func NormalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Set stores doc under its normalized path, replacing any previous record.
func (s *Store) Set(doc *symbols.Document) {
	key := NormalizePath(doc.Path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = doc
}

func (s *Store) Get(path string) (*symbols.Document, bool) {
	key := NormalizePath(path)

	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[key]
	return doc, ok
}

// Delete removes the record for path. Deleting a missing path is a no-op.
func (s *Store) Delete(path string) {
	key := NormalizePath(path)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*symbols.Document)
}

// All returns every record sorted by path.
func (s *Store) All() []*symbols.Document {
	s.mu.RLock()
	docs := make([]*symbols.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
