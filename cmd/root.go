// Package cmd implements the critpath command tree.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/critpath/internal/config"
	"github.com/papapumpkin/critpath/internal/projectfile"
	"github.com/papapumpkin/critpath/internal/ui"
)

// errReported marks a failure that has already been shown to the user, so
// Execute only needs to set the exit status.
var errReported = errors.New("already reported")

var rootCmd = &cobra.Command{
	Use:   "critpath",
	Short: "Critical Path Method scheduling for task networks",
	Long: `critpath computes earliest and latest start and finish times, float and the
critical path for a project described as tasks with durations and dependencies.

Running critpath with no subcommand opens the interactive view when a project
file exists in the current directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRootDefault,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			ui.New(false).Error(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .critpath.yaml)")
	rootCmd.PersistentFlags().StringP("file", "f", "", "project file (default project.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("project_file", rootCmd.PersistentFlags().Lookup("file"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".critpath")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CRITPATH")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// runRootDefault opens the TUI when a project file is present and stdout is
// a terminal, and shows help otherwise.
func runRootDefault(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if _, err := os.Stat(cfg.ProjectFile); err != nil || !isatty.IsTerminal(os.Stdout.Fd()) {
		return cmd.Help()
	}
	return runTUI(tuiCmd, nil)
}

// printer returns a status printer writing to the command's stderr.
func printer(cmd *cobra.Command, cfg config.Config) *ui.Printer {
	return ui.NewWriter(cmd.ErrOrStderr(), cfg.Verbose)
}

// loadProjectFile reads the configured project file, pointing the user at
// init when it does not exist.
func loadProjectFile(cfg config.Config) (*projectfile.File, error) {
	f, err := projectfile.Load(cfg.ProjectFile)
	if errors.Is(err, projectfile.ErrNoProjectFile) {
		return nil, fmt.Errorf("%w (run 'critpath init' to create one)", err)
	}
	return f, err
}
