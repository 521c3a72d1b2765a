package graph

import (
	"context"
	"fmt"
	"time"
)

// QueryOperation represents the type of graph query to perform.
type QueryOperation string

const (
	OperationDependencies QueryOperation = "dependencies"
	OperationDependents   QueryOperation = "dependents"
)

// Query defaults and limits
const (
	DefaultDepth      = 1
	DefaultMaxResults = 100
	MaxDepth          = 10
)

// QueryRequest represents a graph query request.
type QueryRequest struct {
	Operation  QueryOperation // Type of query
	Target     string         // Document path to query
	Depth      int            // Traversal depth (default: 1)
	MaxResults int            // Maximum number of results (default: 100)
}

// QueryResponse represents the response to a graph query.
type QueryResponse struct {
	Operation     string        `json:"operation"`
	Target        string        `json:"target"`
	Results       []QueryResult `json:"results"`
	TotalFound    int           `json:"total_found"`
	TotalReturned int           `json:"total_returned"`
	Truncated     bool          `json:"truncated"`
	TookMs        int           `json:"took_ms"`
}

// QueryResult is one document reached by a query.
type QueryResult struct {
	Path  string `json:"path"`
	Depth int    `json:"depth"` // 1 for direct edges
}

// Query walks the import graph from req.Target in the requested direction.
// Each document is reported once, at the shallowest depth it was reached.
func (ig *ImportGraph) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	startTime := time.Now()

	depth := req.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	var next func(string) []string
	switch req.Operation {
	case OperationDependencies:
		next = ig.Dependencies
	case OperationDependents:
		next = ig.Dependents
	default:
		return nil, fmt.Errorf("unsupported operation: %s", req.Operation)
	}

	found, err := traverse(ctx, req.Target, depth, next)
	if err != nil {
		return nil, err
	}

	results := found
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return &QueryResponse{
		Operation:     string(req.Operation),
		Target:        req.Target,
		Results:       results,
		TotalFound:    len(found),
		TotalReturned: len(results),
		Truncated:     len(results) < len(found),
		TookMs:        int(time.Since(startTime).Milliseconds()),
	}, nil
}

// traverse is a breadth-first walk up to depth levels away from target.
// The target itself is never reported, even when a cycle leads back to it.
func traverse(ctx context.Context, target string, depth int, next func(string) []string) ([]QueryResult, error) {
	results := []QueryResult{}
	visited := map[string]bool{target: true}
	frontier := []string{target}

	for level := 1; level <= depth && len(frontier) > 0; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var upcoming []string
		for _, id := range frontier {
			for _, neighbor := range next(id) {
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				results = append(results, QueryResult{Path: neighbor, Depth: level})
				upcoming = append(upcoming, neighbor)
			}
		}
		frontier = upcoming
	}

	return results, nil
}
