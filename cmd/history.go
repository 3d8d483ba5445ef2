package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/config"
	"github.com/papapumpkin/critpath/internal/history"
	"github.com/papapumpkin/critpath/internal/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a recorded run",
	Long:  "Print the schedule of a recorded run. Any unique prefix of the run ID is accepted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRm,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "maximum number of runs to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory loads the config and opens the history store.
func openHistory(cmd *cobra.Command) (config.Config, *history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.NewStore(ctx, cfg.HistoryDB)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, store, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		printer(cmd, cfg).Info("no runs recorded yet")
		return nil
	}
	printRuns(cmd.OutOrStdout(), runs, cfg.PathDelimiter)
	return nil
}

// printRuns writes one line per run: short ID, age, project, duration and
// critical path.
func printRuns(w io.Writer, runs []history.Run, delim string) {
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		path := r.Summary.PathString(delim)
		if path == "" {
			path = "(none)"
		}
		fmt.Fprintf(w, "%-8s  %-16s  %-24s  %8s %-6s  %s\n",
			id, humanize.Time(r.CreatedAt), r.Project,
			report.FormatDuration(r.Summary.ProjectDuration), r.TimeUnit, path)
	}
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg, store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	opts := report.Options{Title: run.Project, TimeUnit: run.TimeUnit, Delimiter: cfg.PathDelimiter}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s, %s (%s)\n\n", run.ID,
		humanize.Time(run.CreatedAt), run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprint(cmd.OutOrStdout(), report.Terminal(run.Rows, run.Summary, opts))
	return nil
}

func runHistoryRm(cmd *cobra.Command, args []string) error {
	cfg, store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := store.Delete(cmd.Context(), run.ID); err != nil {
		return err
	}
	printer(cmd, cfg).Success(fmt.Sprintf("deleted run %s", run.ID))
	return nil
}
