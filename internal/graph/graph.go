// Package graph tracks the import edges between stylesheets of a workspace.
package graph

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
)

// ImportGraph is a directed graph whose vertices are document paths and whose
// edges point from a document to the stylesheets it imports.
type ImportGraph struct {
	mu sync.RWMutex // Protects g and the indexes

	g graph.Graph[string, string]

	// Direct edges kept alongside the graph for O(1) lookups.
	dependencies map[string]map[string]struct{} // path -> imported paths
	dependents   map[string]map[string]struct{} // path -> importing paths
}

// New creates an empty import graph.
func New() *ImportGraph {
	return &ImportGraph{
		g:            graph.New(graph.StringHash, graph.Directed()),
		dependencies: make(map[string]map[string]struct{}),
		dependents:   make(map[string]map[string]struct{}),
	}
}

// Update replaces the outgoing edges of path with edges to targets.
// Self-imports are ignored.
func (ig *ImportGraph) Update(path string, targets []string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()

	ig.addVertex(path)

	next := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		if target != path {
			next[target] = struct{}{}
		}
	}

	for target := range ig.dependencies[path] {
		if _, keep := next[target]; !keep {
			ig.removeEdge(path, target)
		}
	}
	for target := range next {
		if _, exists := ig.dependencies[path][target]; exists {
			continue
		}
		ig.addVertex(target)
		if err := ig.g.AddEdge(path, target); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			log.Printf("Warning: failed to add import edge %s -> %s: %v", path, target, err)
			continue
		}
		link(ig.dependencies, path, target)
		link(ig.dependents, target, path)
	}
}

// Remove drops the outgoing edges of path. The vertex itself stays while other
// documents still import it.
func (ig *ImportGraph) Remove(path string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()

	for target := range ig.dependencies[path] {
		ig.removeEdge(path, target)
	}
	ig.pruneVertex(path)
}

// Clear removes every vertex and edge.
func (ig *ImportGraph) Clear() {
	ig.mu.Lock()
	defer ig.mu.Unlock()

	ig.g = graph.New(graph.StringHash, graph.Directed())
	ig.dependencies = make(map[string]map[string]struct{})
	ig.dependents = make(map[string]map[string]struct{})
}

// Dependencies returns the paths path imports directly, sorted.
func (ig *ImportGraph) Dependencies(path string) []string {
	ig.mu.RLock()
	defer ig.mu.RUnlock()
	return sortedKeys(ig.dependencies[path])
}

// Dependents returns the paths importing path directly, sorted.
func (ig *ImportGraph) Dependents(path string) []string {
	ig.mu.RLock()
	defer ig.mu.RUnlock()
	return sortedKeys(ig.dependents[path])
}

// Cycles returns every group of documents that import each other, directly or
// transitively. Each cycle and the list of cycles are sorted.
func (ig *ImportGraph) Cycles() ([][]string, error) {
	ig.mu.RLock()
	defer ig.mu.RUnlock()

	components, err := graph.StronglyConnectedComponents(ig.g)
	if err != nil {
		return nil, fmt.Errorf("failed to compute import cycles: %w", err)
	}

	var cycles [][]string
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		sort.Strings(component)
		cycles = append(cycles, component)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}

func (ig *ImportGraph) addVertex(path string) {
	if err := ig.g.AddVertex(path); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		log.Printf("Warning: failed to add vertex %s: %v", path, err)
	}
}

func (ig *ImportGraph) removeEdge(from, to string) {
	if err := ig.g.RemoveEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeNotFound) {
		log.Printf("Warning: failed to remove import edge %s -> %s: %v", from, to, err)
	}
	unlink(ig.dependencies, from, to)
	unlink(ig.dependents, to, from)
	ig.pruneVertex(to)
}

// pruneVertex removes path once no edge touches it.
func (ig *ImportGraph) pruneVertex(path string) {
	if len(ig.dependencies[path]) > 0 || len(ig.dependents[path]) > 0 {
		return
	}
	_ = ig.g.RemoveVertex(path)
}

func link(index map[string]map[string]struct{}, from, to string) {
	set, ok := index[from]
	if !ok {
		set = make(map[string]struct{})
		index[from] = set
	}
	set[to] = struct{}{}
}

func unlink(index map[string]map[string]struct{}, from, to string) {
	set, ok := index[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(index, from)
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
