package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/history"
	"github.com/papapumpkin/critpath/internal/report"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute the schedule and critical path",
	Long: `Run the forward pass, backward pass and critical path extraction over the
project file and print the schedule. Successful runs are recorded in the
history database unless --no-history is given.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("no-history", false, "do not record this run in the history database")
	analyzeCmd.Flags().Bool("critical-only", false, "list only critical tasks")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	noHistory, _ := cmd.Flags().GetBool("no-history")
	criticalOnly, _ := cmd.Flags().GetBool("critical-only")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := loadProjectFile(s.cfg)
	if err != nil {
		return err
	}
	a, err := s.analyze(f)
	if err != nil {
		s.out.AnalysisFailed(err)
		return errReported
	}

	rows := a.Project.Table()
	if criticalOnly {
		rows = criticalRows(rows)
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Terminal(rows, a.Project.Summary(), s.reportOptions(f)))

	if noHistory {
		return nil
	}
	if err := saveRun(cmd.Context(), s, a); err != nil {
		// The schedule was printed; a history failure is only a warning.
		s.out.Warn(err.Error())
	}
	return nil
}

func saveRun(ctx context.Context, s *session, a *analysis) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := history.NewStore(ctx, s.cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	run := history.NewRun(s.projectName(a.File), s.cfg.ProjectFile, s.timeUnit(a.File), a.Project)
	run.ID = a.RunID
	saved, err := store.Save(ctx, run)
	if err != nil {
		return err
	}
	s.out.Verbosef("saved run %s to %s", saved.ID, s.cfg.HistoryDB)
	return nil
}
