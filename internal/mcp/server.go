// Package mcp exposes the SCSS language features as Model Context Protocol
// tools served over stdio.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/M7MD889/vscode-scss/internal/workspace"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "scss-index"
	ServerVersion = "1.0.0"
)

// Server manages the MCP server lifecycle for a set of indexed workspaces.
type Server struct {
	manager *workspace.Manager
	watch   bool
	mcp     *server.MCPServer
}

// NewServer creates a server answering from manager's workspaces. With
// watch set, every workspace is kept up to date while serving.
func NewServer(manager *workspace.Manager, watch bool) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	AddPositionTools(mcpServer, manager)
	AddWorkspaceSymbolsTool(mcpServer, manager)
	AddScssGraphTool(mcpServer, manager)

	return &Server{
		manager: manager,
		watch:   watch,
		mcp:     mcpServer,
	}
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.watch {
		for _, root := range s.manager.Roots() {
			w, err := s.manager.Get(root)
			if err != nil {
				return err
			}
			if err := w.Watch(ctx); err != nil {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio...")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close releases every workspace.
func (s *Server) Close() error {
	return s.manager.Close()
}
