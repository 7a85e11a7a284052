package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/myselfvenky/projectpilot/internal/app"
)

func newCloneCmd(o *rootOptions) *cobra.Command {
	var (
		req   app.CloneProjectRequest
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "clone <url>",
		Short: "Clone a repository and add it as a project",
		Long: `Clone a repository into --dest and add it to the project list.

The URL may be a full clone URL, github.com/owner/repo, or owner/repo.
The project name defaults to the repository name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd, false)
			if err != nil {
				return err
			}
			defer s.Close()

			req.URL = args[0]
			var progress func(string)
			if !quiet {
				progress = func(line string) {
					fmt.Fprintln(cmd.ErrOrStderr(), line)
				}
			}

			res, p := s.app.CloneAndAdd(cmd.Context(), req, progress)
			if err := resultErr(res.Result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Branch != "" {
				fmt.Fprintf(out, "Cloned into %s (branch %s)\n", res.ProjectPath, res.Branch)
			} else {
				fmt.Fprintf(out, "Cloned into %s\n", res.ProjectPath)
			}
			fmt.Fprintf(out, "Added %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&req.Destination, "dest", "d", "", "parent folder for the clone (default clone.default_destination)")
	fl.StringVar(&req.Name, "name", "", "folder and project name (default is the repository name)")
	fl.StringVar(&req.Description, "description", "", "project description")
	fl.StringVar(&req.Tags, "tags", "", "comma-separated tags")
	fl.StringVar(&req.DefaultEditor, "editor", "", "editor id")
	fl.StringVar(&req.ProjectIcon, "icon", "", "project icon")
	fl.BoolVarP(&quiet, "quiet", "q", false, "do not print clone progress")
	return cmd
}
