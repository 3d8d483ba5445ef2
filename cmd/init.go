package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/critpath/internal/config"
	"github.com/papapumpkin/critpath/internal/projectfile"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project file",
	Long: `Create a new project file. With --sample the file is filled with the
built-in seven-task demonstration project.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("sample", false, "write the demonstration project")
	initCmd.Flags().String("name", "", "project name")
	initCmd.Flags().String("unit", "", "time unit label (default from config)")
	initCmd.Flags().Bool("force", false, "overwrite an existing project file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sample, _ := cmd.Flags().GetBool("sample")
	name, _ := cmd.Flags().GetString("name")
	unit, _ := cmd.Flags().GetString("unit")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(cfg.ProjectFile); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.ProjectFile)
	}

	f := &projectfile.File{Name: "Untitled project"}
	if sample {
		f = projectfile.Sample()
	}
	if name != "" {
		f.Name = name
	}
	switch {
	case unit != "":
		f.TimeUnit = unit
	case f.TimeUnit == "":
		f.TimeUnit = cfg.TimeUnit
	}

	if err := projectfile.Save(cfg.ProjectFile, f); err != nil {
		return err
	}
	printer(cmd, cfg).Wrote(cfg.ProjectFile, fmt.Sprintf("project %q with %d task(s) to", f.Name, len(f.Tasks)))
	return nil
}
