package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/cpm"
	"github.com/papapumpkin/critpath/internal/report"
	"github.com/papapumpkin/critpath/internal/telemetry"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the schedule as CSV, text, JSON or Graphviz DOT",
	Long: `Analyze the project file and write the schedule in the chosen format.
Without --format the format is taken from the --output extension, falling
back to txt. Without --output the report goes to stdout.`,
	Example: `  critpath export --format csv -o schedule.csv
  critpath export -o network.dot
  critpath export --format json | jq .summary`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "", "one of "+strings.Join(report.Formats, ", "))
	exportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	exportCmd.Flags().Bool("critical-only", false, "include only critical tasks")
	rootCmd.AddCommand(exportCmd)
}

// exportFormat resolves the format from the flag or the output extension.
func exportFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(output), "."))
	for _, f := range report.Formats {
		if ext == f {
			return f
		}
	}
	return report.FormatTXT
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	criticalOnly, _ := cmd.Flags().GetBool("critical-only")
	format = exportFormat(format, output)

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

	// Render fully before touching the output file.
	var buf bytes.Buffer
	if err := report.Write(&buf, format, rows, a.Project.Summary(), s.reportOptions(f)); err != nil {
		return err
	}

	if output == "" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	s.record(telemetry.KindExportWritten, a.RunID, s.projectName(f), map[string]string{"format": format, "path": output})
	s.out.Wrote(output, format+" report to")
	return nil
}

func criticalRows(rows []cpm.Row) []cpm.Row {
	out := make([]cpm.Row, 0, len(rows))
	for _, r := range rows {
		if r.Critical {
			out = append(out, r)
		}
	}
	return out
}
