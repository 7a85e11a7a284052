package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/myselfvenky/projectpilot/internal/project"
)

var iconGlyphs = map[string]string{
	"folder":    "📁",
	"rocket":    "🚀",
	"star":      "⭐",
	"heart":     "💖",
	"target":    "🎯",
	"briefcase": "💼",
	"book":      "📖",
	"camera":    "📷",
	"music":     "🎵",
	"palette":   "🎨",
	"monitor":   "💻",
	"cloud":     "🌥",
	"shield":    "🛡",
	"key":       "🔑",
	"gift":      "🎁",
	"code":      "🧩",
	"terminal":  "📟",
	"zap":       "⚡",
	"globe":     "🌐",
}

func iconGlyph(icon string) string {
	if g, ok := iconGlyphs[icon]; ok {
		return g
	}
	return iconGlyphs["folder"]
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}

	// Calculate available height for list
	headerHeight := 3
	statusHeight := 3
	helpHeight := 3
	listHeight := m.Height - headerHeight - statusHeight - helpHeight

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(listHeight),
		m.renderStatus(),
		m.renderHelp(),
	)

	// Overlay modal if active
	if m.ActiveModal != ModalNone {
		mainView = m.overlayModal(mainView, m.renderModal())
	}

	return mainView
}

func (m Model) renderHeader() string {
	title := m.Theme.HeaderTitle.Render("ProjectPilot")
	if m.Backend != "" {
		title += m.Theme.HeaderInfo.Render("  storage: " + m.Backend)
	}
	return m.Theme.Header.Width(m.Width - 2).Render(title)
}

func (m Model) renderList(height int) string {
	var title string
	switch {
	case m.Filtering:
		title = " " + m.Filter.View()
	case m.Filter.Value() != "":
		title = fmt.Sprintf(" Projects (%d of %d) %s ",
			m.Selection.TotalItems(), len(m.Projects),
			m.Theme.FilterPrompt.Render("/"+m.Filter.Value()))
	default:
		title = m.Theme.ListTitle.Render(fmt.Sprintf(" Projects (%d) ", len(m.Projects)))
	}

	// Available width for content (account for border padding)
	contentWidth := m.Width - 6
	if contentWidth < 40 {
		contentWidth = 40
	}

	var items []string
	for i, projIdx := range m.Selection.Items() {
		selected := i == m.Selection.RawIndex()
		line := m.renderProjectRow(&m.Projects[projIdx], contentWidth)
		if selected {
			line = m.Theme.SelectedItem.Width(contentWidth).Render(line)
		}
		items = append(items, line)
	}

	innerHeight := height - 3 // border and title
	if innerHeight < 1 {
		innerHeight = 1
	}
	if len(items) == 0 {
		msg := "No projects yet. Add one with `projectpilot add <path>`."
		if m.Filter.Value() != "" {
			msg = "No projects match the filter."
		}
		items = append(items, m.Theme.EmptyList.Render(msg))
	}

	// Keep the cursor in view
	offset := 0
	if cursor := m.Selection.RawIndex(); cursor >= innerHeight {
		offset = cursor - innerHeight + 1
	}
	lines := items[min(offset, len(items)):]
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	for len(lines) < innerHeight {
		lines = append(lines, "")
	}

	return m.Theme.ListBorder.
		Width(m.Width - 2).
		Height(height - 2).
		Render(title + "\n" + strings.Join(lines, "\n"))
}

func (m Model) renderProjectRow(p *project.Project, maxWidth int) string {
	var b strings.Builder
	b.WriteString(iconGlyph(p.ProjectIcon))
	b.WriteString(" ")
	b.WriteString(m.Theme.ProjectName.Render(p.Name))

	if p.DefaultEditor != "" {
		b.WriteString(" ")
		b.WriteString(m.Theme.ProjectEditor.Render("[" + p.DefaultEditor + "]"))
	}
	if p.IsCloned() {
		b.WriteString(" ")
		b.WriteString(m.Theme.ClonedBadge.Render("⎇ cloned"))
	}
	for _, tag := range p.TagList() {
		b.WriteString(" ")
		b.WriteString(m.Theme.ProjectTag.Render("#" + tag))
	}

	detail := p.Description
	if m.ShowPaths || detail == "" {
		detail = tildePath(p.Path)
	}
	if detail != "" {
		b.WriteString("  ")
		b.WriteString(m.Theme.ProjectPath.Render(detail))
	}

	return truncateLine(b.String(), maxWidth)
}

func (m Model) renderStatus() string {
	var text string
	style := m.Theme.StatusMessage

	if m.IsLoading {
		text = "⏳ " + m.LoadingText
	} else if m.StatusMessage != nil {
		text = m.StatusMessage.Text
		switch m.StatusMessage.Type {
		case StatusWarning:
			style = m.Theme.StatusWarning
		case StatusError:
			style = m.Theme.StatusError
		}
	} else {
		text = "Ready"
	}

	if m.LastRefresh != nil {
		text += fmt.Sprintf(" | Last refresh: %s", m.LastRefresh.Format("15:04:05"))
	}

	return m.Theme.StatusBar.Width(m.Width - 2).Render(style.Render(truncateString(text, max(m.Width-6, 10))))
}

func (m Model) renderHelp() string {
	var items []string

	if m.Filtering {
		items = append(items,
			m.Theme.HelpKey.Render("↵")+" Apply",
			m.Theme.HelpKey.Render("esc")+" Clear",
		)
	} else {
		items = append(items,
			m.Theme.HelpKey.Render("↑/↓/j/k")+" Nav",
			m.Theme.HelpKey.Render("↵")+" Open",
			m.Theme.HelpKey.Render("o")+" Folder",
			m.Theme.HelpKey.Render("K/J")+" Move",
			m.Theme.HelpKey.Render("d")+" Delete",
			m.Theme.HelpKey.Render("/")+" Filter",
			m.Theme.HelpKey.Render("?")+" Help",
			m.Theme.HelpKey.Render("q")+" Quit",
		)
	}

	sep := m.Theme.HelpSep.Render(" | ")
	return m.Theme.HelpBar.Width(m.Width - 2).Render(strings.Join(items, sep))
}

func (m Model) renderModal() string {
	switch m.ActiveModal {
	case ModalHelp:
		return m.renderHelpModal()
	case ModalEditors:
		return m.renderEditorsModal()
	case ModalConfirmDelete:
		return m.renderConfirmDeleteModal()
	}
	return ""
}

func (m Model) renderHelpModal() string {
	content := m.Theme.ModalTitle.Render("NAVIGATION") + "\n"
	content += "  ↑/k, ↓/j        Move selection up/down\n"
	content += "  /               Filter by name, tag, or path\n"
	content += "  Esc             Clear filter\n"
	content += "\n"
	content += m.Theme.ModalTitle.Render("PROJECT ACTIONS") + "\n"
	content += "  ↵               Open in the project's editor\n"
	content += "  o               Open folder in file manager\n"
	content += "  K/J             Move project up/down\n"
	content += "  d               Delete project\n"
	content += "\n"
	content += m.Theme.ModalTitle.Render("GLOBAL ACTIONS") + "\n"
	content += "  r               Reload projects\n"
	content += "  m               Toggle path display\n"
	content += "  E               Show detected editors\n"
	content += "  q, Ctrl-C       Quit application\n"
	content += "  ?               Toggle this help screen\n"
	content += "\n"
	content += m.Theme.ModalHelp.Render("Press ? or Esc to close")

	return m.Theme.ModalBorder.Render(
		m.Theme.ModalTitle.Render(" ProjectPilot - Keyboard Commands ") + "\n\n" + content,
	)
}

func (m Model) renderEditorsModal() string {
	var sb strings.Builder
	sb.WriteString(m.Theme.ModalTitle.Render(" Editors "))
	sb.WriteString("\n\n")

	if len(m.Editors) == 0 {
		if m.IsLoading {
			sb.WriteString("Detecting...\n")
		} else {
			sb.WriteString("No editors known\n")
		}
	}
	for _, st := range m.Editors {
		mark := m.Theme.EditorMissing.Render("✗")
		name := m.Theme.EditorMissing.Render(st.Name)
		if st.IsInstalled {
			mark = m.Theme.EditorInstalled.Render("✓")
			name = st.Name
		}
		fmt.Fprintf(&sb, "  %s %-22s %s\n", mark, name, m.Theme.ProjectPath.Render(st.ID))
	}

	sb.WriteString("\n")
	sb.WriteString(m.Theme.ModalHelp.Render("Press E or Esc to close"))
	return m.Theme.ModalBorder.Render(sb.String())
}

func (m Model) renderConfirmDeleteModal() string {
	p := m.SelectedProject()
	if p == nil {
		return m.Theme.ModalBorder.Render("No project selected")
	}
	content := m.Theme.ModalTitle.Render(" Delete project ") + "\n\n"
	content += fmt.Sprintf("Remove %s from the list?\n", m.Theme.ProjectName.Render(p.Name))
	content += m.Theme.ProjectPath.Render(tildePath(p.Path)) + "\n"
	content += "Files on disk are not touched.\n\n"
	content += m.Theme.ModalHelp.Render("y to delete, any other key to cancel")
	return m.Theme.ModalBorder.Render(content)
}

func (m Model) overlayModal(base, modal string) string {
	// Center the modal on the screen
	modalLines := strings.Split(modal, "\n")
	modalHeight := len(modalLines)
	modalWidth := 0
	for _, line := range modalLines {
		if lipgloss.Width(line) > modalWidth {
			modalWidth = lipgloss.Width(line)
		}
	}

	x := max((m.Width-modalWidth)/2, 0)
	y := max((m.Height-modalHeight)/2, 0)

	baseLines := strings.Split(base, "\n")
	pad := strings.Repeat(" ", x)
	for i := 0; i < modalHeight && y+i < len(baseLines); i++ {
		baseLines[y+i] = pad + modalLines[i]
	}

	return strings.Join(baseLines, "\n")
}

// tildePath abbreviates the home directory prefix to ~.
func tildePath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + path[len(home):]
	}
	return path
}

// truncateString truncates a string to maxLen runes, adding ... if needed.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// truncateLine truncates a line to fit within maxWidth, accounting for ANSI codes.
// Adds ellipsis (…) when truncation occurs.
func truncateLine(line string, maxWidth int) string {
	width := lipgloss.Width(line)
	if width <= maxWidth {
		return line
	}

	// Need to truncate - leave room for ellipsis
	targetWidth := maxWidth - 1
	if targetWidth < 1 {
		return "…"
	}

	runes := []rune(line)
	for i := len(runes) - 1; i >= 0; i-- {
		truncated := string(runes[:i])
		if lipgloss.Width(truncated) <= targetWidth {
			return truncated + "…"
		}
	}
	return "…"
}
