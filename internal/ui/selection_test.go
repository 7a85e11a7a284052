package ui

import (
	"testing"

	"github.com/myselfvenky/projectpilot/internal/project"
)

func makeTestProjects(names ...string) []project.Project {
	projects := make([]project.Project, len(names))
	for i, name := range names {
		projects[i] = project.Project{
			ID:   "id-" + name,
			Name: name,
			Path: "/work/" + name,
			Tags: "go",
		}
	}
	return projects
}

func TestNewSelectionManager(t *testing.T) {
	sm := NewSelectionManager()

	if sm.RawIndex() != 0 {
		t.Errorf("RawIndex() = %d, want 0", sm.RawIndex())
	}
	if sm.TotalItems() != 0 {
		t.Errorf("TotalItems() = %d, want 0", sm.TotalItems())
	}
	if sm.SelectedProjectIndex() != -1 {
		t.Errorf("SelectedProjectIndex() = %d, want -1", sm.SelectedProjectIndex())
	}
}

func TestSelectionManager_RebuildFromProjects(t *testing.T) {
	sm := NewSelectionManager()
	sm.RebuildFromProjects(makeTestProjects("alpha", "beta", "gamma"), "")

	if sm.TotalItems() != 3 {
		t.Fatalf("TotalItems() = %d, want 3", sm.TotalItems())
	}
	for i, item := range sm.Items() {
		if item != i {
			t.Errorf("Items()[%d] = %d, want %d", i, item, i)
		}
	}
}

func TestSelectionManager_RebuildFromProjects_Query(t *testing.T) {
	sm := NewSelectionManager()
	projects := makeTestProjects("alpha", "beta", "alphabet")

	sm.RebuildFromProjects(projects, "ALPHA")

	if sm.TotalItems() != 2 {
		t.Fatalf("TotalItems() = %d, want 2", sm.TotalItems())
	}
	if sm.ItemAt(1) != 2 {
		t.Errorf("ItemAt(1) = %d, want 2", sm.ItemAt(1))
	}
}

func TestSelectionManager_RebuildClampsSelection(t *testing.T) {
	sm := NewSelectionManager()
	projects := makeTestProjects("alpha", "beta", "gamma")
	sm.RebuildFromProjects(projects, "")
	sm.SetIndex(2)

	sm.RebuildFromProjects(projects[:1], "")

	if sm.RawIndex() != 0 {
		t.Errorf("RawIndex() = %d, want 0 after shrink", sm.RawIndex())
	}

	sm.RebuildFromProjects(projects, "nothing-matches")
	if sm.SelectedProjectIndex() != -1 {
		t.Errorf("SelectedProjectIndex() = %d, want -1", sm.SelectedProjectIndex())
	}
}

func TestSelectionManager_Navigation(t *testing.T) {
	sm := NewSelectionManager()
	sm.RebuildFromProjects(makeTestProjects("a", "b", "c"), "")

	sm.SelectNext()
	sm.SelectNext()
	if sm.RawIndex() != 2 {
		t.Errorf("RawIndex() = %d, want 2", sm.RawIndex())
	}

	// Wraps to the first item
	sm.SelectNext()
	if sm.RawIndex() != 0 {
		t.Errorf("RawIndex() = %d, want 0 after wrap", sm.RawIndex())
	}

	// Wraps to the last item
	sm.SelectPrevious()
	if sm.RawIndex() != 2 {
		t.Errorf("RawIndex() = %d, want 2 after wrap", sm.RawIndex())
	}
}

func TestSelectionManager_NavigationEmpty(t *testing.T) {
	sm := NewSelectionManager()
	sm.SelectNext()
	sm.SelectPrevious()
	sm.SetIndex(4)

	if sm.RawIndex() != 0 {
		t.Errorf("RawIndex() = %d, want 0", sm.RawIndex())
	}
}

func TestSelectionManager_SetIndex(t *testing.T) {
	sm := NewSelectionManager()
	sm.RebuildFromProjects(makeTestProjects("a", "b", "c"), "")

	tests := []struct {
		index int
		want  int
	}{
		{1, 1},
		{10, 2},
		{-3, 0},
	}
	for _, tt := range tests {
		sm.SetIndex(tt.index)
		if sm.RawIndex() != tt.want {
			t.Errorf("SetIndex(%d): RawIndex() = %d, want %d", tt.index, sm.RawIndex(), tt.want)
		}
	}
}

func TestSelectionManager_SelectProject(t *testing.T) {
	sm := NewSelectionManager()
	projects := makeTestProjects("alpha", "beta", "alphabet")
	sm.RebuildFromProjects(projects, "alpha")

	if !sm.SelectProject(2) {
		t.Fatal("SelectProject(2) = false, want true")
	}
	if sm.RawIndex() != 1 {
		t.Errorf("RawIndex() = %d, want 1", sm.RawIndex())
	}
	if sm.SelectProject(1) {
		t.Error("SelectProject(1) = true for a filtered-out project")
	}
	if sm.SelectedProjectIndex() != 2 {
		t.Errorf("SelectedProjectIndex() = %d, want 2", sm.SelectedProjectIndex())
	}
}

func TestSelectionManager_ItemAtOutOfRange(t *testing.T) {
	sm := NewSelectionManager()
	sm.RebuildFromProjects(makeTestProjects("a"), "")

	if sm.ItemAt(-1) != -1 || sm.ItemAt(1) != -1 {
		t.Error("ItemAt() should return -1 out of range")
	}
}
