package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newIndexCmd(opts *rootOptions) *cobra.Command {
	var quiet, watch bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan the workspace stylesheets",
		Long: `Index discovers every stylesheet under the workspace root, honoring the
scanner_exclude and scanner_depth settings, and records the symbols and
imports of each file. Imported files outside the discovered set are
followed when scan_imported_files is enabled.

Examples:
  # Index the current directory
  scss-index index

  # Keep the index up to date as files change
  scss-index index --watch

  # Machine-readable statistics
  scss-index index --json --quiet
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, opts, quiet, watch)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Disable progress bars and non-error output")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Watch for file changes and rescan incrementally")
	return cmd
}

func runIndex(cmd *cobra.Command, opts *rootOptions, quiet, watch bool) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nInterrupted! Stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()
	var progressOut io.Writer = out
	if opts.json {
		progressOut = cmd.ErrOrStderr()
	}
	progress := NewCLIProgressReporter(progressOut, quiet)

	w, err := opts.newWorkspace(progress)
	if err != nil {
		return err
	}
	defer w.Close()

	stats, indexErr := w.Index(ctx)
	if opts.json {
		if err := printJSON(out, stats); err != nil {
			return err
		}
	}
	if indexErr != nil && !watch {
		return fmt.Errorf("indexing finished with errors: %w", indexErr)
	}
	if indexErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", indexErr)
	}

	if !watch {
		return nil
	}
	if err := w.Watch(ctx); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(out, "Watching for changes... (Ctrl+C to stop)")
	}
	<-ctx.Done()
	return nil
}
