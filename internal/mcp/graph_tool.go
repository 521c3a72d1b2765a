package mcp

import (
	"context"
	"fmt"

	"github.com/M7MD889/vscode-scss/internal/graph"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ScssGraphRequest represents the MCP tool request parameters.
type ScssGraphRequest struct {
	Operation  string `json:"operation"`   // "dependencies", "dependents" or "cycles"
	Target     string `json:"target"`      // Stylesheet path to query
	Depth      int    `json:"depth"`       // Traversal depth (default: 1)
	MaxResults int    `json:"max_results"` // Maximum results (default: 100)
}

// CyclesResponse lists groups of stylesheets importing each other.
type CyclesResponse struct {
	Root   string     `json:"root"`
	Cycles [][]string `json:"cycles"`
}

// AddScssGraphTool registers the scss_graph tool with an MCP server.
func AddScssGraphTool(s *server.MCPServer, workspaces Workspaces) {
	tool := mcp.NewTool(
		"scss_graph",
		mcp.WithDescription("Query the stylesheet import graph for impact analysis. Supports operations: dependencies (what does this file import), dependents (which files import this one), cycles (groups of files importing each other)."),
		mcp.WithString("operation",
			mcp.Required(),
			mcp.Description("Type of query: 'dependencies', 'dependents', or 'cycles'")),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Absolute stylesheet path; for 'cycles', any path inside the workspace")),
		mcp.WithNumber("depth",
			mcp.Description("Traversal depth for recursive queries (default: 1, max: 10)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 100, max: 500)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createScssGraphHandler(workspaces))
}

func createScssGraphHandler(workspaces Workspaces) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args ScssGraphRequest
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Operation == "" {
			return mcp.NewToolResultError("operation parameter is required"), nil
		}
		if args.Target == "" {
			return mcp.NewToolResultError("target parameter is required"), nil
		}
		if args.Depth == 0 {
			args.Depth = graph.DefaultDepth
		}
		if args.MaxResults == 0 {
			args.MaxResults = graph.DefaultMaxResults
		}
		args.Depth = clamp(args.Depth, 1, graph.MaxDepth)
		args.MaxResults = clamp(args.MaxResults, 1, 500)

		w, ok := workspaces.For(args.Target)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no workspace contains %s", args.Target)), nil
		}

		validOps := map[string]graph.QueryOperation{
			"dependencies": graph.OperationDependencies,
			"dependents":   graph.OperationDependents,
		}

		if args.Operation == "cycles" {
			cycles, err := w.Cycles()
			if err != nil {
				return nil, fmt.Errorf("cycle detection failed: %w", err)
			}
			if cycles == nil {
				cycles = [][]string{}
			}
			return jsonResult(&CyclesResponse{Root: w.Root, Cycles: cycles})
		}

		graphOp, valid := validOps[args.Operation]
		if !valid {
			return mcp.NewToolResultError(fmt.Sprintf("invalid operation: %s (must be one of: dependencies, dependents, cycles)", args.Operation)), nil
		}

		response, err := w.Query(ctx, &graph.QueryRequest{
			Operation:  graphOp,
			Target:     args.Target,
			Depth:      args.Depth,
			MaxResults: args.MaxResults,
		})
		if err != nil {
			return nil, fmt.Errorf("graph query failed: %w", err)
		}
		return jsonResult(response)
	}
}
