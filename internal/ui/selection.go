package ui

import "github.com/myselfvenky/projectpilot/internal/project"

// SelectionManager tracks the cursor over the visible subset of projects.
// Items are indices into the full project list.
type SelectionManager struct {
	items         []int
	selectedIndex int
}

// NewSelectionManager creates a new SelectionManager.
func NewSelectionManager() *SelectionManager {
	return &SelectionManager{
		items:         []int{},
		selectedIndex: 0,
	}
}

// RebuildFromProjects rebuilds the visible items from projects matching query.
func (sm *SelectionManager) RebuildFromProjects(projects []project.Project, query string) {
	sm.items = sm.items[:0] // Clear but keep capacity

	for i := range projects {
		if projects[i].Matches(query) {
			sm.items = append(sm.items, i)
		}
	}

	// Clamp selection to valid range
	if len(sm.items) > 0 && sm.selectedIndex >= len(sm.items) {
		sm.selectedIndex = len(sm.items) - 1
	} else if len(sm.items) == 0 {
		sm.selectedIndex = 0
	}
}

// TotalItems returns the number of visible items.
func (sm *SelectionManager) TotalItems() int {
	return len(sm.items)
}

// RawIndex returns the cursor position among visible items.
func (sm *SelectionManager) RawIndex() int {
	return sm.selectedIndex
}

// Items returns the visible project indices.
func (sm *SelectionManager) Items() []int {
	return sm.items
}

// SelectedProjectIndex returns the selected project's index in the full
// list, or -1.
func (sm *SelectionManager) SelectedProjectIndex() int {
	return sm.ItemAt(sm.selectedIndex)
}

// SelectNext moves selection to the next item (wraps around).
func (sm *SelectionManager) SelectNext() {
	total := len(sm.items)
	if total > 0 {
		sm.selectedIndex = (sm.selectedIndex + 1) % total
	}
}

// SelectPrevious moves selection to the previous item (wraps around).
func (sm *SelectionManager) SelectPrevious() {
	total := len(sm.items)
	if total > 0 {
		if sm.selectedIndex == 0 {
			sm.selectedIndex = total - 1
		} else {
			sm.selectedIndex--
		}
	}
}

// SetIndex sets the selection directly by raw index.
func (sm *SelectionManager) SetIndex(index int) {
	total := len(sm.items)
	if total > 0 {
		if index >= total {
			sm.selectedIndex = total - 1
		} else if index < 0 {
			sm.selectedIndex = 0
		} else {
			sm.selectedIndex = index
		}
	}
}

// SelectProject moves the cursor to the item for projIdx. It reports false
// when that project is not visible.
func (sm *SelectionManager) SelectProject(projIdx int) bool {
	for i, item := range sm.items {
		if item == projIdx {
			sm.selectedIndex = i
			return true
		}
	}
	return false
}

// ItemAt returns the project index at the given raw index, or -1.
func (sm *SelectionManager) ItemAt(index int) int {
	if index >= 0 && index < len(sm.items) {
		return sm.items[index]
	}
	return -1
}
