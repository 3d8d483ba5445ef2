package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/tui"
	"github.com/papapumpkin/critpath/internal/ui"
	"github.com/papapumpkin/critpath/internal/watch"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the schedule interactively",
	Long: `Open an interactive table of the schedule. The view re-analyzes whenever
the project file changes; press r to reload, c to show only critical tasks
and q to quit.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("no-watch", false, "do not reload when the project file changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	noWatch, _ := cmd.Flags().GetBool("no-watch")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Fail early with a plain message rather than inside the full-screen view.
	f, err := loadProjectFile(s.cfg)
	if err != nil {
		return err
	}

	var changes <-chan watch.Change
	if !noWatch {
		w, err := watch.New(s.cfg.ProjectFile, s.cfg.WatchDebounce)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		changes = w.Changes
	}

	// Status lines would tear the alternate screen.
	s.out = ui.NewWriter(io.Discard, false)
	return tui.Run(s.tuiLoader(), changes, s.timeUnit(f), s.cfg.PathDelimiter)
}

// tuiLoader returns a loader that re-reads and re-analyzes the project file.
func (s *session) tuiLoader() tui.LoadFunc {
	return func() (tui.Snapshot, error) {
		f, err := loadProjectFile(s.cfg)
		if err != nil {
			return tui.Snapshot{}, err
		}
		a, err := s.analyze(f)
		if err != nil {
			return tui.Snapshot{}, err
		}
		return tui.Snapshot{
			Name:    s.projectName(f),
			Summary: a.Project.Summary(),
			Rows:    a.Project.Table(),
		}, nil
	}
}
