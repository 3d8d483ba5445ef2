package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/telemetry"
	"github.com/papapumpkin/critpath/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze the project every time the file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := watch.New(s.cfg.ProjectFile, s.cfg.WatchDebounce)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	s.out.Watching(s.cfg.ProjectFile)
	s.reanalyze()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if c.Kind == watch.ChangeRemoved {
				s.out.Warn(fmt.Sprintf("%s was removed; waiting for it to return", s.cfg.ProjectFile))
				continue
			}
			s.record(telemetry.KindProjectReload, "", "", map[string]string{"path": c.Path})
			s.reanalyze()
		}
	}
}

// reanalyze loads and analyzes the project file, printing the outcome.
func (s *session) reanalyze() {
	f, err := loadProjectFile(s.cfg)
	if err != nil {
		s.out.AnalysisFailed(err)
		return
	}
	a, err := s.analyze(f)
	if err != nil {
		s.out.AnalysisFailed(err)
		return
	}
	s.out.AnalysisDone(a.Project.Summary(), s.timeUnit(f), s.cfg.PathDelimiter)
}
