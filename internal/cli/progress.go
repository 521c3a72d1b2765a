package cli

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/M7MD889/vscode-scss/internal/scanner"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter draws a progress bar while stylesheets are scanned.
// Files imported from outside the discovered set extend the bar as they are
// found.
type CLIProgressReporter struct {
	quiet   bool
	out     io.Writer
	mu      sync.Mutex
	fileBar *progressbar.ProgressBar
}

var _ scanner.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{quiet: quiet, out: out}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering stylesheets...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d stylesheets\n", files)
}

func (c *CLIProgressReporter) OnScanStart(files int) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileBar != nil {
		c.fileBar.ChangeMax(c.fileBar.GetMax() + files)
		return
	}
	c.fileBar = progressbar.NewOptions(files,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Scanning stylesheets"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileScanned(path string) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fileBar != nil {
		_ = c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *scanner.Stats) {
	if c.quiet {
		return
	}
	c.mu.Lock()
	if c.fileBar != nil {
		_ = c.fileBar.Finish()
		c.fileBar = nil
	}
	c.mu.Unlock()

	fmt.Fprintf(c.out, "✓ Scanned %d stylesheets in %.1fs\n", stats.Total(), stats.Duration.Seconds())
	fmt.Fprintf(c.out, "  Parsed:    %d\n", stats.Scanned)
	fmt.Fprintf(c.out, "  Unchanged: %d\n", stats.Unchanged)
	if stats.Removed > 0 {
		fmt.Fprintf(c.out, "  Removed:   %d\n", stats.Removed)
	}
	if stats.Failed > 0 {
		fmt.Fprintf(c.out, "  Failed:    %d\n", stats.Failed)
	}
}
