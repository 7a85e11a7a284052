package ui

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/myselfvenky/projectpilot/internal/editor"
	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/launcher"
	"github.com/myselfvenky/projectpilot/internal/project"
)

// Modal represents which modal is currently shown.
type Modal int

const (
	ModalNone Modal = iota
	ModalHelp
	ModalEditors
	ModalConfirmDelete
)

// StatusMessageType represents the type of status message.
type StatusMessageType int

const (
	StatusInfo StatusMessageType = iota
	StatusWarning
	StatusError
)

// StatusMessage represents a status message to display.
type StatusMessage struct {
	Type StatusMessageType
	Text string
}

// Model is the Bubble Tea model for the application.
type Model struct {
	// UI state
	Theme       Theme
	Width       int
	Height      int
	ActiveModal Modal

	// Application state
	Projects      []project.Project
	Selection     *SelectionManager
	StatusMessage *StatusMessage
	LastRefresh   *time.Time
	ShowPaths     bool
	Backend       string
	Editors       []editor.Status

	// Filter state
	Filter    textinput.Model
	Filtering bool

	// Async operation state
	IsLoading   bool
	LoadingText string

	// Callbacks for operations (set by the command layer)
	OnLoad        func(ctx context.Context) []project.Project
	OnOpen        func(ctx context.Context, p project.Project) error
	OnOpenFolder  func(ctx context.Context, p project.Project) error
	OnDelete      func(ctx context.Context, id string) error
	OnMove        func(ctx context.Context, id string, to int) error
	OnListEditors func(ctx context.Context) []editor.Status

	// EditorCommand builds the foreground command for terminal editors.
	EditorCommand func(p project.Project) (*exec.Cmd, error)
}

// KeyMap defines the key bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	OpenFolder key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Delete     key.Binding
	Confirm    key.Binding
	Filter     key.Binding
	Refresh    key.Binding
	Editors    key.Binding
	ToggleMode key.Binding
	Help       key.Binding
	Quit       key.Binding
	Escape     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open in editor"),
		),
		OpenFolder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open folder"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Editors: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "editors"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle paths"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

var keys = DefaultKeyMap()

// NewModel creates a new Model with the given theme.
func NewModel(theme Theme) Model {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "name, tag, or path"
	filter.CharLimit = 120

	return Model{
		Theme:     theme,
		Selection: NewSelectionManager(),
		Projects:  []project.Project{},
		Filter:    filter,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.OnLoad != nil {
		return m.loadCmd("")
	}
	return nil
}

// Message types for async operations.
type (
	ProjectsLoadedMsg struct {
		Projects []project.Project
		// SelectID moves the cursor to this project when it is visible.
		SelectID string
	}
	OperationDoneMsg struct {
		Text     string
		Err      error
		Reload   bool
		SelectID string
	}
	EditorsLoadedMsg  struct{ Editors []editor.Status }
	StoreChangedMsg   struct{}
	ClearFlashMsg     struct{}
	terminalEditorMsg struct{ Project project.Project }
	editorFinishedMsg struct {
		Name string
		Err  error
	}
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case ProjectsLoadedMsg:
		m.IsLoading = false
		m.LoadingText = ""
		selectID := msg.SelectID
		if selectID == "" {
			if p := m.SelectedProject(); p != nil {
				selectID = p.ID
			}
		}
		m.Projects = msg.Projects
		m.Selection.RebuildFromProjects(m.Projects, m.Filter.Value())
		if idx := project.IndexOf(m.Projects, selectID); idx >= 0 {
			m.Selection.SelectProject(idx)
		}
		now := time.Now()
		m.LastRefresh = &now
		return m, nil

	case OperationDoneMsg:
		m.IsLoading = false
		m.LoadingText = ""
		if msg.Err != nil {
			m.StatusMessage = &StatusMessage{Type: StatusError, Text: perrors.UserMessage(msg.Err)}
		} else if msg.Text != "" {
			m.StatusMessage = &StatusMessage{Type: StatusInfo, Text: msg.Text}
		}
		if msg.Reload && m.OnLoad != nil {
			return m, tea.Batch(m.loadCmd(msg.SelectID), m.flashCmd())
		}
		return m, m.flashCmd()

	case EditorsLoadedMsg:
		m.IsLoading = false
		m.LoadingText = ""
		m.Editors = msg.Editors
		return m, nil

	case StoreChangedMsg:
		if m.OnLoad != nil {
			return m, m.loadCmd("")
		}
		return m, nil

	case terminalEditorMsg:
		return m.runTerminalEditor(msg.Project)

	case editorFinishedMsg:
		if msg.Err != nil {
			m.StatusMessage = &StatusMessage{Type: StatusError, Text: fmt.Sprintf("%s exited: %v", msg.Name, msg.Err)}
		} else {
			m.StatusMessage = &StatusMessage{Type: StatusInfo, Text: "Closed " + msg.Name}
		}
		return m, m.flashCmd()

	case ClearFlashMsg:
		// Clear non-error status messages after timeout
		if m.StatusMessage != nil && m.StatusMessage.Type == StatusInfo {
			m.StatusMessage = nil
		}
		return m, nil
	}

	if m.Filtering {
		var cmd tea.Cmd
		m.Filter, cmd = m.Filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SelectedProject returns the project under the cursor, or nil.
func (m Model) SelectedProject() *project.Project {
	idx := m.Selection.SelectedProjectIndex()
	if idx < 0 || idx >= len(m.Projects) {
		return nil
	}
	return &m.Projects[idx]
}

func (m Model) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Only handle clicks when no modal is open
	if m.ActiveModal != ModalNone {
		return m, nil
	}

	// Only handle left click
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	// Header: 3 lines (bordered)
	// List border top: 1 line
	// List title: 1 line
	listTop := 5
	listBottom := m.Height - 7 // List border (1) + Status (3) + Help (3)

	if msg.Y >= listTop && msg.Y < listBottom {
		clicked := msg.Y - listTop
		if clicked < m.Selection.TotalItems() {
			// Clicking the selected row opens it
			if clicked == m.Selection.RawIndex() {
				if p := m.SelectedProject(); p != nil && m.OnOpen != nil {
					return m, m.openCmd(*p)
				}
			}
			m.Selection.SetIndex(clicked)
		}
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Filtering {
		return m.handleFilterKeyPress(msg)
	}

	// Handle escape to close modals, then to clear the filter
	if key.Matches(msg, keys.Escape) {
		if m.ActiveModal != ModalNone {
			m.ActiveModal = ModalNone
			return m, nil
		}
		if m.Filter.Value() != "" {
			m.Filter.SetValue("")
			m.Selection.RebuildFromProjects(m.Projects, "")
			return m, nil
		}
	}

	// Handle modal-specific keys
	if m.ActiveModal != ModalNone {
		return m.handleModalKeyPress(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.ActiveModal = ModalHelp
		return m, nil

	case key.Matches(msg, keys.Up):
		m.Selection.SelectPrevious()
		return m, nil

	case key.Matches(msg, keys.Down):
		m.Selection.SelectNext()
		return m, nil

	case key.Matches(msg, keys.Open):
		if p := m.SelectedProject(); p != nil && m.OnOpen != nil {
			m.IsLoading = true
			m.LoadingText = "Opening " + p.Name + "..."
			return m, m.openCmd(*p)
		}
		return m, nil

	case key.Matches(msg, keys.OpenFolder):
		if p := m.SelectedProject(); p != nil && m.OnOpenFolder != nil {
			return m, m.openFolderCmd(*p)
		}
		return m, nil

	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		return m.moveSelected(key.Matches(msg, keys.MoveUp))

	case key.Matches(msg, keys.Delete):
		if m.SelectedProject() != nil && m.OnDelete != nil {
			m.ActiveModal = ModalConfirmDelete
		}
		return m, nil

	case key.Matches(msg, keys.Filter):
		m.Filtering = true
		cmd := m.Filter.Focus()
		return m, cmd

	case key.Matches(msg, keys.Refresh):
		if m.OnLoad != nil {
			m.IsLoading = true
			m.LoadingText = "Refreshing..."
			return m, m.loadCmd("")
		}
		return m, nil

	case key.Matches(msg, keys.Editors):
		m.ActiveModal = ModalEditors
		if m.OnListEditors != nil {
			m.IsLoading = true
			m.LoadingText = "Detecting editors..."
			return m, m.editorsCmd()
		}
		return m, nil

	case key.Matches(msg, keys.ToggleMode):
		m.ShowPaths = !m.ShowPaths
		return m, nil
	}

	return m, nil
}

func (m Model) handleFilterKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Filtering = false
		m.Filter.Blur()
		m.Filter.SetValue("")
		m.Selection.RebuildFromProjects(m.Projects, "")
		return m, nil
	case tea.KeyEnter:
		m.Filtering = false
		m.Filter.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.Filter, cmd = m.Filter.Update(msg)
	m.Selection.RebuildFromProjects(m.Projects, m.Filter.Value())
	m.Selection.SetIndex(0)
	return m, cmd
}

func (m Model) handleModalKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ActiveModal {
	case ModalHelp:
		if key.Matches(msg, keys.Help) {
			m.ActiveModal = ModalNone
		}
		return m, nil

	case ModalEditors:
		if key.Matches(msg, keys.Editors) {
			m.ActiveModal = ModalNone
		}
		return m, nil

	case ModalConfirmDelete:
		m.ActiveModal = ModalNone
		if key.Matches(msg, keys.Confirm) {
			if p := m.SelectedProject(); p != nil {
				m.IsLoading = true
				m.LoadingText = "Deleting " + p.Name + "..."
				return m, m.deleteCmd(*p)
			}
		}
		return m, nil
	}

	return m, nil
}

// moveSelected swaps the selected project with its neighbour in store order.
func (m Model) moveSelected(up bool) (tea.Model, tea.Cmd) {
	p := m.SelectedProject()
	if p == nil || m.OnMove == nil {
		return m, nil
	}
	if m.Filter.Value() != "" {
		m.StatusMessage = &StatusMessage{Type: StatusWarning, Text: "Clear the filter to reorder projects"}
		return m, m.flashCmd()
	}
	from := m.Selection.SelectedProjectIndex()
	to := from + 1
	if up {
		to = from - 1
	}
	if to < 0 || to >= len(m.Projects) {
		return m, nil
	}
	return m, m.moveCmd(*p, to)
}

// Command functions
func (m Model) loadCmd(selectID string) tea.Cmd {
	return func() tea.Msg {
		return ProjectsLoadedMsg{Projects: m.OnLoad(context.Background()), SelectID: selectID}
	}
}

func (m Model) openCmd(p project.Project) tea.Cmd {
	return func() tea.Msg {
		err := m.OnOpen(context.Background(), p)
		if launcher.IsTerminalEditorError(err) {
			return terminalEditorMsg{Project: p}
		}
		return OperationDoneMsg{Text: "Opened " + p.Name, Err: err}
	}
}

func (m Model) openFolderCmd(p project.Project) tea.Cmd {
	return func() tea.Msg {
		err := m.OnOpenFolder(context.Background(), p)
		return OperationDoneMsg{Text: "Opened folder " + p.Path, Err: err}
	}
}

func (m Model) deleteCmd(p project.Project) tea.Cmd {
	return func() tea.Msg {
		err := m.OnDelete(context.Background(), p.ID)
		return OperationDoneMsg{Text: "Deleted " + p.Name, Err: err, Reload: true}
	}
}

func (m Model) moveCmd(p project.Project, to int) tea.Cmd {
	return func() tea.Msg {
		err := m.OnMove(context.Background(), p.ID, to)
		return OperationDoneMsg{Err: err, Reload: true, SelectID: p.ID}
	}
}

func (m Model) editorsCmd() tea.Cmd {
	return func() tea.Msg {
		return EditorsLoadedMsg{Editors: m.OnListEditors(context.Background())}
	}
}

// runTerminalEditor suspends the UI and runs a terminal editor in the
// foreground.
func (m Model) runTerminalEditor(p project.Project) (tea.Model, tea.Cmd) {
	m.IsLoading = false
	m.LoadingText = ""
	if m.EditorCommand == nil {
		m.StatusMessage = &StatusMessage{Type: StatusWarning, Text: "Terminal editors are not supported here"}
		return m, m.flashCmd()
	}
	cmd, err := m.EditorCommand(p)
	if err != nil {
		m.StatusMessage = &StatusMessage{Type: StatusError, Text: perrors.UserMessage(err)}
		return m, m.flashCmd()
	}
	name := p.DefaultEditor
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{Name: name, Err: err}
	})
}

// flashCmd returns a command that clears the status message after a delay.
func (m Model) flashCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return ClearFlashMsg{}
	})
}
