package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/myselfvenky/projectpilot/internal/project"
)

// formatFor resolves --format, falling back to the file extension.
func formatFor(flag, path string) (project.Format, error) {
	if flag != "" {
		return project.ParseFormat(flag)
	}
	return project.FormatForPath(path), nil
}

func newExportCmd(o *rootOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all projects as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatFor(format, output)
			if err != nil {
				return err
			}

			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			s.warnDisconnected(cmd)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			return resultErr(s.app.Export(cmd.Context(), w, f))
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the output file name, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(o *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add or replace projects from a JSON or YAML file",
		Long: `Import projects from a file written by export. Projects with an id that
already exists replace the stored record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatFor(format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			n, res := s.app.Import(cmd.Context(), file, f)
			if err := resultErr(res); err != nil {
				return fmt.Errorf("imported %d projects before failing: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d projects\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the file name)")
	return cmd
}
