package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/M7MD889/vscode-scss/internal/providers"
	"github.com/M7MD889/vscode-scss/internal/symbols"
	"github.com/M7MD889/vscode-scss/internal/workspace"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Workspaces routes a document path to the workspace that indexes it.
type Workspaces interface {
	For(path string) (*workspace.Workspace, bool)
	Roots() []string
}

// positionQuery answers one provider call for a document position.
type positionQuery func(w *workspace.Workspace, doc providers.Document, offset int) (any, error)

// positionTool describes a tool taking path, line, character and optional text.
type positionTool struct {
	name        string
	description string
	query       positionQuery
}

var positionTools = []positionTool{
	{
		name:        "scss_complete",
		description: "List the SCSS variables, mixins and functions that can be completed at a position, including symbols visible through @import, @use and @forward.",
		query: func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.Completion(doc, offset)
		},
	},
	{
		name:        "scss_hover",
		description: "Describe the SCSS symbol at a position: its declaration and the file and line declaring it.",
		query: func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.Hover(doc, offset)
		},
	},
	{
		name:        "scss_signature_help",
		description: "Show the parameters of the mixin or function call enclosing a position and which argument is being written.",
		query: func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.SignatureHelp(doc, offset)
		},
	},
	{
		name:        "scss_definition",
		description: "Find where the SCSS symbol at a position is declared.",
		query: func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.Definition(doc, offset)
		},
	},
}

// AddPositionTools registers the completion, hover, signature help and
// definition tools.
func AddPositionTools(s *server.MCPServer, workspaces Workspaces) {
	for _, pt := range positionTools {
		tool := mcp.NewTool(
			pt.name,
			mcp.WithDescription(pt.description),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Absolute path of the stylesheet")),
			mcp.WithNumber("line",
				mcp.Required(),
				mcp.Description("0-based line of the position")),
			mcp.WithNumber("character",
				mcp.Required(),
				mcp.Description("0-based character of the position within the line")),
			mcp.WithString("text",
				mcp.Description("Unsaved buffer contents; the file on disk is read when omitted")),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithDestructiveHintAnnotation(false),
		)
		s.AddTool(tool, createPositionHandler(workspaces, pt.query))
	}
}

// PositionRequest holds the arguments of the position tools. Line and
// Character are pointers so a missing argument can be told from zero.
type PositionRequest struct {
	Path      string  `json:"path"`
	Line      *int    `json:"line"`
	Character *int    `json:"character"`
	Text      *string `json:"text"`
}

func createPositionHandler(workspaces Workspaces, query positionQuery) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args PositionRequest
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		line, err := requireNonNegative("line", args.Line)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		character, err := requireNonNegative("character", args.Character)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path := args.Path

		w, ok := workspaces.For(path)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no workspace contains %s", path)), nil
		}

		var doc providers.Document
		if args.Text != nil {
			doc = providers.Document{Path: path, Text: *args.Text}
		} else {
			doc, err = workspace.Open(path)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		result, err := query(w, doc, workspace.Offset(doc.Text, line, character))
		if err != nil {
			// strict-mode parse errors
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(result)
	}
}

// SymbolsRequest holds the scss_workspace_symbols arguments.
type SymbolsRequest struct {
	Query string   `json:"query"`
	Root  string   `json:"root"`
	Kinds []string `json:"kinds"`
	Limit int      `json:"limit"`
}

// SymbolsResponse is the scss_workspace_symbols result.
type SymbolsResponse struct {
	Results []providers.SymbolInformation `json:"results"`
	Total   int                           `json:"total"`
}

// AddWorkspaceSymbolsTool registers the scss_workspace_symbols tool.
func AddWorkspaceSymbolsTool(s *server.MCPServer, workspaces Workspaces) {
	tool := mcp.NewTool(
		"scss_workspace_symbols",
		mcp.WithDescription("Search every indexed stylesheet for variables, mixins and functions whose name matches a query. Matching ignores case and accepts the query letters in order (fuzzy)."),
		mcp.WithString("query",
			mcp.Description("Name or fragment to search for; empty lists every symbol")),
		mcp.WithString("root",
			mcp.Description("Limit the search to the workspace containing this path")),
		mcp.WithArray("kinds",
			mcp.Description("Only return these kinds. Options: 'variable', 'mixin', 'function'. Leave empty for all kinds.")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (1-500, default: 50)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createWorkspaceSymbolsHandler(workspaces))
}

func createWorkspaceSymbolsHandler(workspaces Workspaces) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args SymbolsRequest
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Limit == 0 {
			args.Limit = 50
		}
		limit := clamp(args.Limit, 1, 500)

		kinds := make(map[symbols.Kind]bool, len(args.Kinds))
		for _, k := range args.Kinds {
			kind := symbols.Kind(k)
			if kind != symbols.KindVariable && kind != symbols.KindMixin && kind != symbols.KindFunction {
				return mcp.NewToolResultError(fmt.Sprintf("invalid kind: %s (must be one of: variable, mixin, function)", k)), nil
			}
			kinds[kind] = true
		}

		var targets []*workspace.Workspace
		if args.Root != "" {
			w, ok := workspaces.For(args.Root)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("no workspace contains %s", args.Root)), nil
			}
			targets = append(targets, w)
		} else {
			for _, r := range workspaces.Roots() {
				if w, ok := workspaces.For(r); ok {
					targets = append(targets, w)
				}
			}
		}

		response := &SymbolsResponse{Results: []providers.SymbolInformation{}}
		for _, w := range targets {
			for _, sym := range w.Symbols(args.Query) {
				if len(kinds) == 0 || kinds[sym.Kind] {
					response.Results = append(response.Results, sym)
				}
			}
		}
		response.Total = len(response.Results)
		if len(response.Results) > limit {
			response.Results = response.Results[:limit]
		}
		return jsonResult(response)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
