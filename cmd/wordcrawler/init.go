package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/wordcrawler/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/wordcrawler.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new crawl file",
		Long: `Init writes a commented crawl file to the current directory.

The generated file lists every crawl setting with its default value.

Examples:
  # Create .wordcrawler.yaml in current directory
  wordcrawler init

  # Create a crawl file at a specific path
  wordcrawler init -o crawls/news.yaml

  # Force overwrite existing file
  wordcrawler init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the crawl file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing crawl file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("crawl file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/wordcrawler.yaml")
	if err != nil {
		return fmt.Errorf("failed to read crawl file template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write crawl file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created crawl file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit startPages, then run:")
	fmt.Fprintf(out, "  wordcrawler crawl -c %s\n", outputPath)

	return nil
}
