package project

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNew(t *testing.T) {
	p := New("  demo ", "/src/demo")
	assert.Equal(t, "demo", p.Name)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, time.UTC, p.CreatedAt.Location())
	assert.Zero(t, p.CreatedAt.Nanosecond()%int(time.Millisecond))
}

func TestApplyDefaults(t *testing.T) {
	p := Project{Name: "demo", ProjectIcon: "unicorn"}
	p.ApplyDefaults("vscode")
	assert.Equal(t, "vscode", p.DefaultEditor)
	assert.Equal(t, DefaultIcon, p.ProjectIcon)

	p = Project{Name: "demo", DefaultEditor: "zed", ProjectIcon: "rocket"}
	p.ApplyDefaults("vscode")
	assert.Equal(t, "zed", p.DefaultEditor)
	assert.Equal(t, "rocket", p.ProjectIcon)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		field   string
	}{
		{"missing id", Project{Name: "demo"}, "id"},
		{"blank name", Project{ID: "1", Name: "   "}, "name"},
		{"valid", Project{ID: "1", Name: "demo"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *perrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestTags(t *testing.T) {
	p := Project{Tags: " go, cli ,,tui "}
	assert.Equal(t, []string{"go", "cli", "tui"}, p.TagList())
	assert.Nil(t, ParseTags(""))
	assert.Equal(t, "go, cli", JoinTags([]string{" go", "", "cli"}))
}

func TestSort(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	projects := []Project{
		{ID: "a", SortOrder: 1, CreatedAt: base},
		{ID: "b", SortOrder: 0, CreatedAt: base},
		{ID: "c", SortOrder: 0, CreatedAt: base.Add(time.Hour)},
		{ID: "d", SortOrder: -1, CreatedAt: base},
	}
	Sort(projects)

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids)
}

func TestFilter(t *testing.T) {
	projects := []Project{
		{ID: "1", Name: "Launcher", Tags: "go"},
		{ID: "2", Name: "Website", Description: "Marketing site", Path: "/src/web"},
		{ID: "3", Name: "Notes", Path: "/src/GoNotes"},
	}
	assert.Len(t, Filter(projects, ""), 3)
	assert.Len(t, Filter(projects, "GO"), 2)
	assert.Len(t, Filter(projects, "marketing"), 1)
	assert.Empty(t, Filter(projects, "rust"))
}

func TestMove(t *testing.T) {
	projects := []Project{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	assert.Equal(t, []string{"b", "c", "a", "d"}, Move(projects, 0, 2))
	assert.Equal(t, []string{"d", "a", "b", "c"}, Move(projects, 3, 0))
	assert.Equal(t, []string{"a", "b", "d", "c"}, Move(projects, 2, 99))
	assert.Equal(t, []string{"a", "b", "c", "d"}, Move(projects, 7, 0))
	assert.Equal(t, 2, IndexOf(projects, "c"))
	assert.Equal(t, -1, IndexOf(projects, "z"))
}

func TestIcons(t *testing.T) {
	assert.Len(t, Icons, 19)
	assert.True(t, IsValidIcon("globe"))
	assert.False(t, IsValidIcon(""))
}

func TestCodec(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	projects := []Project{{
		ID: "p1", Name: "demo", Path: "/src/demo", Tags: "go",
		DefaultEditor: "vscode", ProjectIcon: "rocket",
		CreatedAt: created, UpdatedAt: created, SortOrder: 2,
		Source: SourceGitHubClone, OriginalURL: "https://github.com/o/r.git",
	}}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, projects, format))

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, projects[0].ID, got[0].ID)
			assert.Equal(t, projects[0].OriginalURL, got[0].OriginalURL)
			assert.True(t, created.Equal(got[0].CreatedAt))
			assert.True(t, got[0].IsCloned())
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	got, err := Decode(bytes.NewReader(nil), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Decode(bytes.NewBufferString("{not json"), FormatJSON)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)

	assert.Equal(t, FormatYAML, FormatForPath("projects.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("projects.txt"))
}
