package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/myselfvenky/projectpilot/internal/project"
)

// jsonBackend keeps the project list in one JSON document and mirrors it in
// memory. Every mutation is applied to a copy, written to a temporary file,
// and renamed into place before the mirror is replaced.
type jsonBackend struct {
	path     string
	projects []project.Project
	// corrupt holds the path an unreadable file was moved to, if any.
	corrupt string
}

func openJSON(ctx context.Context, path string) (Backend, error) {
	b := &jsonBackend{path: path}
	if err := b.Reload(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *jsonBackend) Kind() Kind   { return KindJSON }
func (b *jsonBackend) Path() string { return b.path }
func (b *jsonBackend) Close() error { return nil }

// Reload re-reads the file. A missing file is an empty list; a file that
// cannot be parsed is moved aside and replaced by an empty list.
func (b *jsonBackend) Reload(_ context.Context) error {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.projects = []project.Project{}
		return b.persist(b.projects)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", b.path, err)
	}

	var projects []project.Project
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &projects); err != nil {
			aside := fmt.Sprintf("%s.corrupt-%d", b.path, time.Now().UnixMilli())
			if rerr := os.Rename(b.path, aside); rerr != nil {
				return fmt.Errorf("parse %s: %w (move aside: %v)", b.path, err, rerr)
			}
			b.corrupt = aside
			b.projects = []project.Project{}
			return b.persist(b.projects)
		}
	}
	for i := range projects {
		projects[i].CreatedAt = project.NormalizeTime(projects[i].CreatedAt)
		projects[i].UpdatedAt = project.NormalizeTime(projects[i].UpdatedAt)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	b.projects = projects
	return nil
}

// persist writes projects atomically.
func (b *jsonBackend) persist(projects []project.Project) error {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("encode projects: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replace %s: %w", b.path, err)
	}
	return nil
}

func (b *jsonBackend) commit(projects []project.Project) error {
	if err := b.persist(projects); err != nil {
		return err
	}
	b.projects = projects
	return nil
}

func (b *jsonBackend) All(_ context.Context) ([]project.Project, error) {
	out := slices.Clone(b.projects)
	if out == nil {
		out = []project.Project{}
	}
	project.Sort(out)
	return out, nil
}

func (b *jsonBackend) Get(_ context.Context, id string) (*project.Project, error) {
	if i := project.IndexOf(b.projects, id); i >= 0 {
		p := b.projects[i]
		return &p, nil
	}
	return nil, nil
}

func (b *jsonBackend) Upsert(_ context.Context, p project.Project) error {
	next := slices.Clone(b.projects)
	if i := project.IndexOf(next, p.ID); i >= 0 {
		next[i] = p
	} else {
		next = append(next, p)
	}
	return b.commit(next)
}

func (b *jsonBackend) Delete(_ context.Context, id string) (int64, error) {
	i := project.IndexOf(b.projects, id)
	if i < 0 {
		return 0, nil
	}
	next := slices.Delete(slices.Clone(b.projects), i, i+1)
	if err := b.commit(next); err != nil {
		return 0, err
	}
	return 1, nil
}

func (b *jsonBackend) Reorder(_ context.Context, ids []string) error {
	next := slices.Clone(b.projects)
	for order, id := range ids {
		if i := project.IndexOf(next, id); i >= 0 {
			next[i].SortOrder = order
		}
	}
	return b.commit(next)
}

func (b *jsonBackend) Count(_ context.Context) (int, error) {
	return len(b.projects), nil
}
