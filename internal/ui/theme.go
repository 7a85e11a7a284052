// Package ui provides the terminal user interface for projectpilot.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the styles used in the UI.
type Theme struct {
	// Base styles
	App lipgloss.Style

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style

	// List styles
	ListBorder     lipgloss.Style
	ListTitle      lipgloss.Style
	SelectedItem   lipgloss.Style
	UnselectedItem lipgloss.Style
	ProjectName    lipgloss.Style
	ProjectPath    lipgloss.Style
	ProjectTag     lipgloss.Style
	ProjectEditor  lipgloss.Style
	ClonedBadge    lipgloss.Style
	EmptyList      lipgloss.Style

	// Filter input
	FilterPrompt lipgloss.Style

	// Status bar
	StatusBar     lipgloss.Style
	StatusMessage lipgloss.Style
	StatusWarning lipgloss.Style
	StatusError   lipgloss.Style

	// Help bar
	HelpBar  lipgloss.Style
	HelpKey  lipgloss.Style
	HelpText lipgloss.Style
	HelpSep  lipgloss.Style

	// Modal styles
	ModalBorder  lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalContent lipgloss.Style
	ModalHelp    lipgloss.Style

	// Editors modal
	EditorInstalled lipgloss.Style
	EditorMissing   lipgloss.Style
}

// DarkTheme returns a theme for dark terminals.
func DarkTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle(),

		Header:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")), // Cyan
		HeaderInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		ListBorder:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		ListTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		SelectedItem:   lipgloss.NewStyle().Background(lipgloss.Color("17")).Foreground(lipgloss.Color("15")), // Dark blue bg
		UnselectedItem: lipgloss.NewStyle(),
		ProjectName:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")), // White
		ProjectPath:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),           // Gray
		ProjectTag:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),            // Magenta
		ProjectEditor:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),            // Blue
		ClonedBadge:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),            // Lime
		EmptyList:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),

		FilterPrompt: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),

		StatusBar:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		StatusMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // Lime
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")), // Yellow
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),  // Red

		HelpBar:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")), // Cyan
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("15")), // White
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		ModalBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("14")).Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		ModalContent: lipgloss.NewStyle(),
		ModalHelp:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),

		EditorInstalled: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		EditorMissing:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LightTheme returns a theme for light terminals.
func LightTheme() Theme {
	return Theme{
		App: lipgloss.NewStyle(),

		Header:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")), // Blue
		HeaderInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		ListBorder:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		ListTitle:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")),
		SelectedItem:   lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("0")), // Light gray bg
		UnselectedItem: lipgloss.NewStyle(),
		ProjectName:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")), // Black
		ProjectPath:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),         // Dark gray
		ProjectTag:     lipgloss.NewStyle().Foreground(lipgloss.Color("5")),           // Purple
		ProjectEditor:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),           // Blue
		ClonedBadge:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),           // Dark green
		EmptyList:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),

		FilterPrompt: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		StatusBar:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		StatusMessage: lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // Dark green
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")), // Dark yellow
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // Red

		HelpBar:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")), // Blue
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("0")), // Black
		HelpSep:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		ModalBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("4")).Padding(1, 2),
		ModalTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		ModalContent: lipgloss.NewStyle(),
		ModalHelp:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),

		EditorInstalled: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		EditorMissing:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// DetectTheme returns the theme named by PROJECTPILOT_THEME, defaulting to
// the terminal's reported background.
func DetectTheme() Theme {
	if override := os.Getenv("PROJECTPILOT_THEME"); override != "" {
		switch strings.ToLower(override) {
		case "dark":
			return DarkTheme()
		case "light":
			return LightTheme()
		}
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// GetTheme returns the theme based on the theme name.
func GetTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}
