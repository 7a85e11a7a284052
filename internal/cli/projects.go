package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/myselfvenky/projectpilot/internal/editor"
	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/project"
)

func newListCmd(o *rootOptions) *cobra.Command {
	var filter, format string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			s.warnDisconnected(cmd)

			projects := project.Filter(s.app.LoadProjects(cmd.Context()), filter)
			if format == "table" {
				return printProjects(cmd.OutOrStdout(), projects)
			}
			f, err := project.ParseFormat(format)
			if err != nil {
				return err
			}
			return project.Encode(cmd.OutOrStdout(), projects, f)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show projects matching this text")
	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json, or yaml")
	return cmd
}

func printProjects(w io.Writer, projects []project.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No projects.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tEDITOR\tTAGS\tPATH")
	for i, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i, p.ID, p.Name, p.DefaultEditor, project.JoinTags(p.TagList()), p.Path)
	}
	return tw.Flush()
}

// projectFlags are the editable project fields shared by add and edit.
type projectFlags struct {
	name        string
	path        string
	description string
	tags        string
	editor      string
	icon        string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "project name (default is the folder name)")
	fl.StringVar(&f.path, "path", "", "project folder")
	fl.StringVar(&f.description, "description", "", "short description")
	fl.StringVar(&f.tags, "tags", "", "comma-separated tags")
	fl.StringVar(&f.editor, "editor", "", "editor id (see `projectpilot editors`)")
	fl.StringVar(&f.icon, "icon", "", "icon: "+strings.Join(project.Icons, ", "))
}

// apply copies the flags the user set onto p.
func (f *projectFlags) apply(cmd *cobra.Command, p *project.Project) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = f.name
	}
	if changed("path") {
		abs, err := filepath.Abs(f.path)
		if err != nil {
			return perrors.NewValidationError("path", err.Error())
		}
		p.Path = abs
	}
	if changed("description") {
		p.Description = f.description
	}
	if changed("tags") {
		p.Tags = project.JoinTags(project.ParseTags(f.tags))
	}
	if changed("editor") {
		if _, ok := editor.Lookup(f.editor); !ok {
			return perrors.NewValidationError("editor", "Unknown editor: "+f.editor)
		}
		p.DefaultEditor = f.editor
	}
	if changed("icon") {
		if !project.IsValidIcon(f.icon) {
			return perrors.NewValidationError("icon", "Unknown icon: "+f.icon)
		}
		p.ProjectIcon = f.icon
	}
	return nil
}

func newAddCmd(o *rootOptions) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project",
		Long: `Add a project to the list.

Without --path, a native folder picker asks for the project folder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()
			ctx := cmd.Context()

			p := project.New("", "")
			if err := flags.apply(cmd, &p); err != nil {
				return err
			}
			if p.Path == "" {
				picked := s.app.SelectFolder(ctx)
				if !picked.Success {
					if picked.Error != "" {
						return resultErr(picked.Result)
					}
					return perrors.NewValidationError("path", "No folder selected")
				}
				p.Path = picked.Path
			}
			if strings.TrimSpace(p.Name) == "" {
				p.Name = filepath.Base(p.Path)
			}

			if err := resultErr(s.app.SaveProject(ctx, p)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newEditCmd(o *rootOptions) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a project's fields",
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
			if err := flags.apply(cmd, &p); err != nil {
				return err
			}
			if err := resultErr(s.app.SaveProject(ctx, p)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", p.Name)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a project from the list (files are kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := resultErr(s.app.DeleteProject(cmd.Context(), args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newMoveCmd(o *rootOptions) *cobra.Command {
	var to int

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a project to a position in the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := resultErr(s.app.MoveProject(cmd.Context(), args[0], to)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to position %d\n", args[0], to)
			return nil
		},
	}

	cmd.Flags().IntVar(&to, "to", 0, "zero-based target position")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
