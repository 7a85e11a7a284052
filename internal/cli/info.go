package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project count and storage backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			st := s.app.Stats(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Projects:  %d\n", st.Count)
			fmt.Fprintf(out, "Backend:   %s\n", st.Backend)
			if st.Path != "" {
				fmt.Fprintf(out, "Data file: %s\n", st.Path)
			}
			if !st.Connected {
				fmt.Fprintln(out, "Storage is not available; changes will not be saved.")
			}
			return nil
		},
	}
}

func newDoctorCmd(o *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment projectpilot depends on",
		Long:  `Reports the platform, storage backend, clone tool, and installed editors.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			d := s.app.RunDiagnostics(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}

			check := func(name string, ok bool, detail string) {
				if ok {
					fmt.Fprintf(out, "  ✓ %s\n", name)
				} else {
					fmt.Fprintf(out, "  ✗ %s: %s\n", name, detail)
				}
			}

			fmt.Fprintf(out, "Platform: %s/%s\n\n", d.OS, d.Arch)

			fmt.Fprintln(out, "Storage:")
			check("backend "+d.Backend, d.Backend != "none", "no backend could be opened")
			if d.DataPath != "" {
				fmt.Fprintf(out, "  → %s (%d projects)\n", d.DataPath, d.ProjectCount)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Tools:")
			check(d.CloneTool, d.CloneToolAvailable, "install it to clone repositories")
			check("folder picker", d.FolderPicker, "use --path with add")

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Editors:")
			if len(d.InstalledEditors) == 0 {
				check("installed editors", false, "none detected")
			} else {
				fmt.Fprintf(out, "  → %s\n", strings.Join(d.InstalledEditors, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
