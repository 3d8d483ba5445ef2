package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the project file for unknown dependencies and cycles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		f, err := loadProjectFile(s.cfg)
		if err != nil {
			return err
		}
		name := s.projectName(f)

		p, err := f.Project()
		if err == nil {
			err = p.Validate()
		}
		s.out.ValidateResult(name, len(f.Tasks), err)
		if err != nil {
			return errReported
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
