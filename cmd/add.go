package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/projectfile"
	"github.com/papapumpkin/critpath/internal/telemetry"
)

var addCmd = &cobra.Command{
	Use:   "add ID DURATION",
	Short: "Add a task to the project file",
	Long: `Add a task to the project file. Dependencies are given as a comma-separated
list with --after and must already exist in the file.`,
	Example: `  critpath add design 3
  critpath add build 5 --after design
  critpath add ship 1 --after build,docs
  critpath add --after build -- cleanup 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().String("after", "", "comma-separated IDs this task depends on")
	addCmd.Flags().String("description", "", "free-form task description")
	addCmd.SetFlagErrorFunc(negativeDurationError)
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := loadProjectFile(s.cfg)
	if err != nil {
		return err
	}

	after, _ := cmd.Flags().GetString("after")
	desc, _ := cmd.Flags().GetString("description")

	entry, err := projectfile.ParseTaskInput(args[0], args[1], after, f.Has)
	if err != nil {
		return err
	}
	entry.Description = desc
	f.Tasks = append(f.Tasks, entry)

	if err := projectfile.Save(s.cfg.ProjectFile, f); err != nil {
		return fmt.Errorf("saving %s: %w", s.cfg.ProjectFile, err)
	}
	if err := s.em.Emit(telemetry.Event{
		Kind:    telemetry.KindTaskAdded,
		Project: s.projectName(f),
		TaskID:  entry.ID,
		Data:    map[string]any{"duration": entry.Duration, "depends_on": entry.DependsOn},
	}); err != nil {
		s.out.Warn(err.Error())
	}
	s.out.TaskAdded(entry.ID, entry.Duration, entry.DependsOn)
	return nil
}

// negativeDurationError reports a negative DURATION, which the flag parser
// sees as an unknown shorthand flag such as "-3", the same way
// ParseTaskInput reports any other non-positive duration.
func negativeDurationError(_ *cobra.Command, err error) error {
	msg := err.Error()
	if !strings.HasPrefix(msg, "unknown shorthand flag") {
		return err
	}
	i := strings.LastIndex(msg, " in ")
	if i < 0 {
		return err
	}
	if _, perr := strconv.ParseFloat(msg[i+len(" in "):], 64); perr != nil {
		return err
	}
	return &projectfile.InputError{Field: "duration", Msg: "Duration must be positive"}
}
