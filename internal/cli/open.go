package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/myselfvenky/projectpilot/internal/editor"
	"github.com/myselfvenky/projectpilot/internal/launcher"
)

func newOpenCmd(o *rootOptions) *cobra.Command {
	var editorID string

	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Open a project in its editor",
		Long: `Open a project in its default editor, or the one given with --editor.

Terminal editors such as vim run in the foreground of this terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()

			p, err := s.app.GetProject(ctx, args[0])
			if err != nil {
				return err
			}
			id := editorID
			if id == "" {
				id = p.DefaultEditor
			}
			if id == "" {
				id = s.cfg.Editor.Default
			}

			res := s.app.OpenProject(ctx, p.Path, id)
			if launcher.IsTerminalEditorError(res.Err()) {
				ed, err := s.app.Opener.EditorCommand(p.Path, id)
				if err != nil {
					return err
				}
				ed.Stdin = os.Stdin
				ed.Stdout = cmd.OutOrStdout()
				ed.Stderr = cmd.ErrOrStderr()
				return ed.Run()
			}
			if err := resultErr(res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s in %s\n", p.Name, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&editorID, "editor", "e", "", "editor id to use instead of the project's default")
	return cmd
}

func newFolderCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "folder <id>",
		Short: "Show a project's folder in the file manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()

			p, err := s.app.GetProject(ctx, args[0])
			if err != nil {
				return err
			}
			return resultErr(s.app.OpenFolder(ctx, p.Path))
		},
	}
}

func newBrowseCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <url>",
		Short: "Open a URL in the default browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			return resultErr(s.app.OpenExternal(cmd.Context(), args[0]))
		},
	}
}

func newEditorsCmd(o *rootOptions) *cobra.Command {
	var installedOnly bool

	cmd := &cobra.Command{
		Use:   "editors",
		Short: "List known editors and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			statuses := s.app.GetAvailableEditors(cmd.Context())
			if installedOnly {
				statuses = editor.Installed(statuses)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOMMAND\tINSTALLED")
			for _, st := range statuses {
				mark := "no"
				if st.IsInstalled {
					mark = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.ID, st.Name, st.Command, mark)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&installedOnly, "installed", false, "only list installed editors")
	return cmd
}
