package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wordcrawler.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordcrawler",
		Short: "Concurrent web crawler that counts popular words",
		Long: `wordcrawler crawls web pages starting from one or more URLs, follows
links up to a maximum depth within a time budget, and reports the most
popular words across every page it visited.

Crawl settings come from a YAML or JSON crawl file, a .env file and
WORDCRAWLER_* environment variables, and command-line flags, in increasing
order of precedence. Finished crawls are kept in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
