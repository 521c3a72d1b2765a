package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/M7MD889/vscode-scss/internal/providers"
	"github.com/M7MD889/vscode-scss/internal/workspace"
	"github.com/spf13/cobra"
)

// positionQuery runs one provider against the document position.
type positionQuery func(w *workspace.Workspace, doc providers.Document, offset int) (any, error)

// newPositionCmd builds a FILE LINE:COL command around query.
func newPositionCmd(opts *rootOptions, use, short string, query positionQuery) *cobra.Command {
	var stdin bool

	cmd := &cobra.Command{
		Use:   use + " FILE LINE:COL",
		Short: short,
		Long: short + `.

LINE and COL are 1-based. With --stdin the buffer is read from standard
input instead of FILE, so unsaved editor contents can be queried.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, character, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0], stdin, cmd.InOrStdin())
			if err != nil {
				return err
			}

			w, err := opts.openWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			defer w.Close()

			result, err := query(w, doc, workspace.Offset(doc.Text, line, character))
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), result)
			}
			printResult(cmd.OutOrStdout(), w.Root, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdin, "stdin", false, "read the buffer from standard input")
	return cmd
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	return newPositionCmd(opts, "complete", "List the symbols that can be completed at a position",
		func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.Completion(doc, offset)
		})
}

func newHoverCmd(opts *rootOptions) *cobra.Command {
	return newPositionCmd(opts, "hover", "Describe the symbol at a position",
		func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.Hover(doc, offset)
		})
}

func newSignatureCmd(opts *rootOptions) *cobra.Command {
	return newPositionCmd(opts, "signature", "Show the parameters of the call enclosing a position",
		func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.SignatureHelp(doc, offset)
		})
}

func newDefinitionCmd(opts *rootOptions) *cobra.Command {
	return newPositionCmd(opts, "definition", "Find where the symbol at a position is declared",
		func(w *workspace.Workspace, doc providers.Document, offset int) (any, error) {
			return w.Definition(doc, offset)
		})
}

// printResult writes a provider result in plain text.
func printResult(out io.Writer, root string, result any) {
	switch r := result.(type) {
	case *providers.CompletionList:
		for _, item := range r.Items {
			fmt.Fprintf(out, "%s\t%s\t%s\n", item.Label, item.Kind, item.Detail)
		}
	case *providers.HoverResult:
		if r == nil {
			fmt.Fprintln(out, "No symbol found")
			return
		}
		fmt.Fprintln(out, r.Contents)
	case *providers.SignatureHelpResult:
		if r == nil {
			fmt.Fprintln(out, "No call found")
			return
		}
		sig := r.Signatures[r.ActiveSignature]
		fmt.Fprintln(out, sig.Label)
		if r.ActiveParameter < len(sig.Parameters) {
			fmt.Fprintf(out, "%s^ %s\n", strings.Repeat(" ", parameterColumn(sig, r.ActiveParameter)), sig.Parameters[r.ActiveParameter].Label)
		}
	case *providers.Location:
		if r == nil {
			fmt.Fprintln(out, "No definition found")
			return
		}
		fmt.Fprintln(out, formatLocation(root, r.Path, r.Range.Start))
	}
}

// parameterColumn is the byte column of parameter n within the label.
func parameterColumn(sig providers.SignatureInformation, n int) int {
	col := strings.Index(sig.Label, "(") + 1
	for i, param := range sig.Parameters {
		idx := strings.Index(sig.Label[col:], param.Label)
		if idx < 0 {
			break
		}
		if i == n {
			return col + idx
		}
		col += idx + len(param.Label)
	}
	return col
}
