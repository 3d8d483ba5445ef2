package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/config"
	"github.com/papapumpkin/critpath/internal/cpm"
	"github.com/papapumpkin/critpath/internal/projectfile"
	"github.com/papapumpkin/critpath/internal/report"
	"github.com/papapumpkin/critpath/internal/telemetry"
	"github.com/papapumpkin/critpath/internal/ui"
)

// session bundles what every analyzing command needs: configuration, the
// status printer and the optional telemetry stream.
type session struct {
	cfg config.Config
	out *ui.Printer
	em  *telemetry.Emitter
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s := &session{cfg: cfg, out: printer(cmd, cfg)}
	if cfg.TelemetryFile != "" {
		em, err := telemetry.NewEmitter(cfg.TelemetryFile)
		if err != nil {
			return nil, err
		}
		s.em = em
		s.out.Verbosef("telemetry → %s", cfg.TelemetryFile)
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.em.Close(); err != nil {
		s.out.Warn(err.Error())
	}
}

// record emits a telemetry event. Telemetry failures never fail a command.
func (s *session) record(kind, runID, project string, data any) {
	if err := s.em.Record(kind, runID, project, data); err != nil {
		s.out.Warn(err.Error())
	}
}

// analysis is one completed run over a project file.
type analysis struct {
	RunID   string
	File    *projectfile.File
	Project *cpm.Project
}

// analyze builds and analyzes the project described by f. The returned error
// message is the analysis message, suitable for display as is.
func (s *session) analyze(f *projectfile.File) (*analysis, error) {
	runID := uuid.NewString()
	name := s.projectName(f)

	p, err := f.Project(cpm.WithSlackTolerance(s.cfg.SlackTolerance))
	if err != nil {
		s.record(telemetry.KindAnalysisFailed, runID, name, map[string]string{"error": err.Error()})
		return nil, err
	}

	s.record(telemetry.KindAnalysisStart, runID, name, map[string]int{"tasks": p.Len()})
	s.out.Verbosef("analyzing %d task(s) from %s", p.Len(), s.cfg.ProjectFile)

	if err := p.Analyze(); err != nil {
		s.record(telemetry.KindAnalysisFailed, runID, name, map[string]string{"error": err.Error()})
		return nil, err
	}

	sum := p.Summary()
	s.record(telemetry.KindAnalysisDone, runID, name, map[string]any{
		"duration":       sum.ProjectDuration,
		"critical_path":  sum.CriticalPath,
		"critical_tasks": sum.CriticalTaskCount,
	})
	s.out.Verbosef("run %s: duration %s, %d critical task(s)", runID, report.FormatDuration(sum.ProjectDuration), sum.CriticalTaskCount)
	return &analysis{RunID: runID, File: f, Project: p}, nil
}

// projectName is the file's name field, falling back to the file name.
func (s *session) projectName(f *projectfile.File) string {
	if f != nil && f.Name != "" {
		return f.Name
	}
	base := filepath.Base(s.cfg.ProjectFile)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// timeUnit prefers the unit declared in the file over the configured one.
func (s *session) timeUnit(f *projectfile.File) string {
	if f != nil && f.TimeUnit != "" {
		return f.TimeUnit
	}
	return s.cfg.TimeUnit
}

func (s *session) reportOptions(f *projectfile.File) report.Options {
	return report.Options{
		Title:     s.projectName(f),
		TimeUnit:  s.timeUnit(f),
		Delimiter: s.cfg.PathDelimiter,
	}
}
