package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/markdown"
	"github.com/nao1215/wordcrawler/internal/config"
	"github.com/nao1215/wordcrawler/internal/database"
	"github.com/nao1215/wordcrawler/internal/profiler"
	"github.com/nao1215/wordcrawler/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed when --limit is not set.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect finished crawls",
		Long: `History lists, shows and deletes the crawls saved in the local
history database.

Examples:
  # List the most recent crawls
  wordcrawler history list

  # Show the result of one crawl as Markdown
  wordcrawler history show 0c6b7d4e-1f1e-4a59-9a57-3b0b3f0a1c2d -f markdown

  # Delete a crawl
  wordcrawler history delete 0c6b7d4e-1f1e-4a59-9a57-3b0b3f0a1c2d`,
	}

	cmd.PersistentFlags().String("db-dir", config.XDGDataDir(),
		"History database directory")

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryDeleteCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved crawls, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of crawls to list (0: all)")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the result of a saved crawl",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	cmd.Flags().StringP("format", "f", string(report.FormatText),
		"Result format: json, markdown or text")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved crawl",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}
}

// openHistoryDB opens the existing history database named by --db-dir.
func openHistoryDB(cmd *cobra.Command) (*database.CrawlDB, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// parseRunID parses a crawl ID argument.
func parseRunID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid crawl ID %q: %w", arg, err)
	}
	return id, nil
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No crawls saved yet.")
		return nil
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			run.ID.String(),
			run.StartedAt.Local().Format(time.DateTime),
			profiler.FormatDuration(run.FinishedAt.Sub(run.StartedAt)),
			strconv.Itoa(run.URLsVisited),
			strings.Join(run.Seeds, " "),
		}
	}

	md := markdown.NewMarkdown(out)
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Started", "Duration", "URLs", "Seeds"},
		Rows:   rows,
	})
	return md.Build()
}

func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	formatName, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := db.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != report.FormatJSON {
		fmt.Fprintf(out, "Crawl:          %s\n", run.ID)
		fmt.Fprintf(out, "Started:        %s\n", run.StartedAt.Local().Format(time.RFC1123))
		fmt.Fprintf(out, "Duration:       %s\n", profiler.FormatDuration(run.Duration()))
		fmt.Fprintf(out, "Implementation: %s\n", run.Implementation)
		fmt.Fprintf(out, "Max Depth:      %d\n", run.MaxDepth)
		fmt.Fprintf(out, "Parallelism:    %d\n", run.Parallelism)
		fmt.Fprintf(out, "Seeds:          %s\n\n", strings.Join(run.Seeds, ", "))
	}

	w, err := report.NewWriter(format, out)
	if err != nil {
		return err
	}
	_, err = w.Write(run.Result())
	return err
}

func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	id, err := parseRunID(args[0])
	if err != nil {
		return err
	}

	db, err := openHistoryDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRun(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted crawl %s\n", id)
	return nil
}
