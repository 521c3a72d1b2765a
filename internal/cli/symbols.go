package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSymbolsCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "symbols [QUERY]",
		Short: "Search the workspace for variables, mixins and functions",
		Long: `Symbols lists the declarations whose names match QUERY. Names containing
QUERY (ignoring case) come first, followed by names containing its letters
in order. Without QUERY every symbol is listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}

			w, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			results := w.Symbols(query)
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, results)
			}
			for _, r := range results {
				fmt.Fprintf(out, "%-8s\t%s\t%s\n", r.Kind, r.Name, formatLocation(w.Root, r.Location.Path, r.Location.Range.Start))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (0 for all)")
	return cmd
}
