package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hxstate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hxstate",
		Short: "Per-client state served as swappable HTML fragments",
		Long: `hxstate serves two small applications, a named counter and a to-do
list, whose state lives in a pluggable store keyed by a session cookie.

Every mutation answers with only the HTML fragments that changed, ready
to be swapped into the page by htmx.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)
	return cmd
}
