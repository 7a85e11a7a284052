// Package project defines the project record shared by the store, the CLI,
// and the terminal UI.
package project

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
)

// SourceGitHubClone marks projects created by cloning a repository.
const SourceGitHubClone = "github-clone"

// DefaultIcon is used when a project has no icon or an unknown one.
const DefaultIcon = "folder"

// Icons is the fixed set of project icon ids.
var Icons = []string{
	"folder", "rocket", "star", "heart", "target", "briefcase", "book",
	"camera", "music", "palette", "monitor", "cloud", "shield", "key",
	"gift", "code", "terminal", "zap", "globe",
}

// TimestampPrecision is the resolution timestamps are stored at.
const TimestampPrecision = time.Millisecond

// Project is one local development project.
type Project struct {
	ID            string    `json:"id" yaml:"id"`
	Name          string    `json:"name" yaml:"name"`
	Description   string    `json:"description" yaml:"description,omitempty"`
	Path          string    `json:"path" yaml:"path"`
	Tags          string    `json:"tags" yaml:"tags,omitempty"`
	DefaultEditor string    `json:"defaultEditor" yaml:"defaultEditor"`
	ProjectIcon   string    `json:"projectIcon" yaml:"projectIcon"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
	SortOrder     int       `json:"sortOrder" yaml:"sortOrder"`
	Source        string    `json:"source,omitempty" yaml:"source,omitempty"`
	OriginalURL   string    `json:"originalUrl,omitempty" yaml:"originalUrl,omitempty"`
}

// NewID returns a new time-ordered project id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// New creates a project with a fresh id and timestamps.
func New(name, path string) Project {
	now := Now()
	return Project{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Now returns the current time at storage precision.
func Now() time.Time {
	return NormalizeTime(time.Now())
}

// NormalizeTime converts t to UTC at storage precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

// ApplyDefaults fills empty optional fields.
func (p *Project) ApplyDefaults(defaultEditor string) {
	p.Name = strings.TrimSpace(p.Name)
	if p.DefaultEditor == "" {
		p.DefaultEditor = defaultEditor
	}
	if !IsValidIcon(p.ProjectIcon) {
		p.ProjectIcon = DefaultIcon
	}
	p.CreatedAt = NormalizeTime(p.CreatedAt)
	p.UpdatedAt = NormalizeTime(p.UpdatedAt)
}

// Validate checks the fields a store requires.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return perrors.NewValidationError("id", "Project id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return perrors.NewValidationError("name", "Project name is required")
	}
	return nil
}

// TagList parses the comma-delimited tags.
func (p *Project) TagList() []string {
	return ParseTags(p.Tags)
}

// IsCloned reports whether the project came from a repository clone.
func (p *Project) IsCloned() bool {
	return p.Source == SourceGitHubClone
}

// ParseTags splits comma-delimited tags, dropping empty entries.
func ParseTags(tags string) []string {
	var out []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// JoinTags renders tags in their stored form.
func JoinTags(tags []string) string {
	return strings.Join(ParseTags(strings.Join(tags, ",")), ", ")
}

// IsValidIcon reports whether icon is in Icons.
func IsValidIcon(icon string) bool {
	for _, i := range Icons {
		if i == icon {
			return true
		}
	}
	return false
}

// Less orders by sort order ascending, then newest first. Ids break any
// remaining tie so the order is total.
func Less(a, b *Project) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Sort orders projects in place using Less.
func Sort(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return Less(&projects[i], &projects[j])
	})
}

// Filter returns projects whose name, description, tags, or path contain
// query, ignoring case. An empty query returns all projects.
func Filter(projects []Project, query string) []Project {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return projects
	}
	var out []Project
	for _, p := range projects {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether name, description, tags, or path contain query,
// ignoring case.
func (p *Project) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{p.Name, p.Description, p.Tags, p.Path}, "\n"))
	return strings.Contains(haystack, query)
}

// IndexOf returns the position of id in projects, or -1.
func IndexOf(projects []Project, id string) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Move returns the ids of projects with the entry at from moved to to.
func Move(projects []Project, from, to int) []string {
	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}
	if from < 0 || from >= len(ids) {
		return ids
	}
	if to < 0 {
		to = 0
	}
	if to >= len(ids) {
		to = len(ids) - 1
	}
	id := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	ids = append(ids[:to], append([]string{id}, ids[to:]...)...)
	return ids
}
