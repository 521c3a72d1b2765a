// Package cli implements the scss-index command line.
package cli

import (
	"fmt"
	"os"

	"github.com/M7MD889/vscode-scss/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	verbose    bool
	root       string
	json       bool
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "scss-index",
		Short: "Cross-file symbol index for SCSS",
		Long: `scss-index scans a project's stylesheets, records the variables, mixins
and functions each file declares, and answers completion, hover, signature
help, go-to-definition and symbol search queries across @import, @use and
@forward boundaries.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "settings file (default is <root>/.scss-index/config.yml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.StringVarP(&opts.root, "root", "r", "", "workspace root (default is the working directory)")
	flags.BoolVar(&opts.json, "json", false, "print results as JSON")

	cmd.AddCommand(
		newIndexCmd(opts),
		newCompleteCmd(opts),
		newHoverCmd(opts),
		newSignatureCmd(opts),
		newDefinitionCmd(opts),
		newSymbolsCmd(opts),
		newDepsCmd(opts),
		newMCPCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig lets SCSS_INDEX_ROOT and SCSS_INDEX_CONFIG stand in for the
// --root and --config flags.
func (o *rootOptions) initConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	for _, key := range []string{"root", "config"} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", key, err)
		}
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	o.root = v.GetString("root")
	o.configFile = v.GetString("config")

	if o.verbose && o.configFile != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", o.configFile)
	}
	return nil
}
