package cli

import (
	"context"
	"fmt"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/myselfvenky/projectpilot/internal/editor"
	"github.com/myselfvenky/projectpilot/internal/project"
	"github.com/myselfvenky/projectpilot/internal/ui"
)

// runTUI runs the terminal UI until the user quits.
func runTUI(cmd *cobra.Command, o *rootOptions) error {
	s, err := o.open(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	model := newModel(s)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	// Refresh when another process changes the store
	if s.cfg.Storage.Watch && s.app.Store.Connected() {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := s.app.Store.Watch(watchCtx, func() {
				p.Send(ui.StoreChangedMsg{})
			})
			if err != nil {
				s.logger.Warn(watchCtx, "store watch stopped", zap.Error(err))
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

// newModel builds the UI model with callbacks into the session's App.
func newModel(s *session) ui.Model {
	a := s.app
	model := ui.NewModel(ui.GetTheme(string(s.cfg.UI.Theme)))
	model.Backend = string(a.Store.Kind())
	if !a.Store.Connected() {
		model.StatusMessage = &ui.StatusMessage{
			Type: ui.StatusError,
			Text: "Project storage is not available; changes will not be saved",
		}
	}

	editorFor := func(p project.Project) string {
		if p.DefaultEditor != "" {
			return p.DefaultEditor
		}
		return s.cfg.Editor.Default
	}

	model.OnLoad = a.LoadProjects
	model.OnOpen = func(ctx context.Context, p project.Project) error {
		return a.OpenProject(ctx, p.Path, editorFor(p)).Err()
	}
	model.OnOpenFolder = func(ctx context.Context, p project.Project) error {
		return a.OpenFolder(ctx, p.Path).Err()
	}
	model.OnDelete = func(ctx context.Context, id string) error {
		return a.DeleteProject(ctx, id).Err()
	}
	model.OnMove = func(ctx context.Context, id string, to int) error {
		return a.MoveProject(ctx, id, to).Err()
	}
	model.OnListEditors = func(ctx context.Context) []editor.Status {
		return a.GetAvailableEditors(ctx)
	}
	model.EditorCommand = func(p project.Project) (*exec.Cmd, error) {
		return a.Opener.EditorCommand(p.Path, editorFor(p))
	}
	return model
}
