package cli

import (
	"errors"
	"fmt"

	"github.com/M7MD889/vscode-scss/internal/graph"
	"github.com/spf13/cobra"
)

func newDepsCmd(opts *rootOptions) *cobra.Command {
	var (
		dependents bool
		cycles     bool
		depth      int
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "deps [FILE]",
		Short: "Explore the stylesheet import graph",
		Long: `Deps lists the files FILE imports, or with --dependents the files that
import FILE, up to --depth levels away. With --cycles it reports groups of
files importing each other instead.

Examples:
  # What does main.scss pull in, transitively?
  scss-index deps main.scss --depth 10

  # Which files are affected by a change to _variables.scss?
  scss-index deps --dependents styles/_variables.scss

  # Find import cycles
  scss-index deps --cycles
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cycles && len(args) == 0 {
				return errors.New("FILE is required unless --cycles is set")
			}

			w, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()

			if cycles {
				groups, err := w.Cycles()
				if err != nil {
					return fmt.Errorf("cycle detection failed: %w", err)
				}
				if opts.json {
					if groups == nil {
						groups = [][]string{}
					}
					return printJSON(out, groups)
				}
				if len(groups) == 0 {
					fmt.Fprintln(out, "No import cycles")
				}
				for i, group := range groups {
					fmt.Fprintf(out, "Cycle %d:\n", i+1)
					for _, path := range group {
						fmt.Fprintf(out, "  %s\n", displayPath(w.Root, path))
					}
				}
				return nil
			}

			op := graph.OperationDependencies
			if dependents {
				op = graph.OperationDependents
			}
			resp, err := w.Query(cmd.Context(), &graph.QueryRequest{
				Operation:  op,
				Target:     args[0],
				Depth:      depth,
				MaxResults: maxResults,
			})
			if err != nil {
				return fmt.Errorf("graph query failed: %w", err)
			}
			if opts.json {
				return printJSON(out, resp)
			}
			for _, r := range resp.Results {
				fmt.Fprintf(out, "%d\t%s\n", r.Depth, displayPath(w.Root, r.Path))
			}
			if resp.Truncated {
				fmt.Fprintf(out, "... %d more\n", resp.TotalFound-resp.TotalReturned)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dependents, "dependents", false, "list the files importing FILE")
	cmd.Flags().BoolVar(&cycles, "cycles", false, "report import cycles")
	cmd.Flags().IntVarP(&depth, "depth", "d", graph.DefaultDepth, "traversal depth")
	cmd.Flags().IntVar(&maxResults, "max-results", graph.DefaultMaxResults, "maximum number of results")
	return cmd
}
