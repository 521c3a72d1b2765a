package cli

import (
	"log"

	mcpserver "github.com/M7MD889/vscode-scss/internal/mcp"
	"github.com/M7MD889/vscode-scss/internal/workspace"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "mcp [ROOT...]",
		Short: "Serve the index over the Model Context Protocol",
		Long: `Start a Model Context Protocol server on stdio exposing completion, hover,
signature help, definition, workspace symbol and import graph tools.

Each ROOT is indexed before the server starts; without arguments the
workspace root is used. Documents outside every ROOT are rejected.

The server communicates via stdin/stdout and is typically launched by
an MCP client:

  {
    "mcpServers": {
      "scss-index": {
        "command": "scss-index",
        "args": ["mcp", "--watch"]
      }
    }
  }
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				root, err := opts.rootDir()
				if err != nil {
					return err
				}
				roots = []string{root}
			}

			manager := workspace.NewManager(opts.loadSettings)
			for _, root := range roots {
				w, err := manager.Get(root)
				if err != nil {
					manager.Close()
					return err
				}
				if _, err := w.Index(cmd.Context()); err != nil {
					log.Printf("Warning: indexing %s finished with errors: %v\n", w.Root, err)
				}
			}

			srv := mcpserver.NewServer(manager, watch)
			defer srv.Close()
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rescan files as they change")
	return cmd
}
