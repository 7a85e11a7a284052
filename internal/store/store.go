// Package store persists projects behind a backend chosen once at startup.
//
// Open tries the SQLite drivers in platform preference order and falls back
// to a JSON document when none initializes. A Store whose fallback also
// failed stays usable: reads return empty results and writes report
// errors.ErrNotConnected.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/logging"
	"github.com/myselfvenky/projectpilot/internal/project"
)

// opener opens one backend kind at path.
type opener func(ctx context.Context, path string) (Backend, error)

// openers is a variable so tests can simulate driver failures.
var openers = map[Kind]opener{
	KindModernc: openModernc,
	KindNcruces: openNcruces,
	KindJSON:    openJSON,
}

// DefaultPreference returns the structured backends to try on goos.
func DefaultPreference(goos string) []Kind {
	if goos == "windows" {
		return []Kind{KindNcruces, KindModernc}
	}
	return []Kind{KindModernc, KindNcruces}
}

// Options configure Open.
type Options struct {
	// Dir holds the database, the JSON document, or both.
	Dir string
	// Preference lists backends in the order to try. Empty means
	// DefaultPreference for the running OS. JSON is always tried last.
	Preference    []Kind
	DefaultEditor string
	Logger        *logging.Logger
}

// Stats describes the active backend.
type Stats struct {
	Count     int    `json:"count"`
	Backend   Kind   `json:"backend"`
	Path      string `json:"path"`
	Connected bool   `json:"connected"`
}

// Store serializes access to one Backend.
type Store struct {
	mu            sync.Mutex
	backend       Backend
	defaultEditor string
	logger        *logging.Logger
	now           func() time.Time

	// known is the file state after this process last wrote or reloaded.
	known fileState
}

// Open selects and initializes a backend. The returned Store is never nil;
// the error is non-nil only when every backend, JSON included, failed.
func Open(ctx context.Context, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{
		defaultEditor: opts.DefaultEditor,
		logger:        logger.Named("store"),
		now:           project.Now,
	}

	pref := opts.Preference
	if len(pref) == 0 {
		pref = DefaultPreference(runtime.GOOS)
	}

	var errs []error
	// The SQLite drivers cannot create the directory themselves.
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		s.logger.Warn(ctx, "cannot create data directory", zap.String("dir", opts.Dir), zap.Error(err))
		errs = append(errs, fmt.Errorf("create %s: %w", opts.Dir, err))
	}
	for _, kind := range orderCandidates(pref) {
		open, ok := openers[kind]
		if !ok {
			continue
		}
		path := filepath.Join(opts.Dir, fileFor(kind))
		b, err := open(ctx, path)
		if err != nil {
			s.logger.Warn(ctx, "backend unavailable, trying next",
				zap.String("backend", string(kind)), zap.String("path", path), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		if jb, ok := b.(*jsonBackend); ok && jb.corrupt != "" {
			s.logger.Warn(ctx, "unreadable project file moved aside", zap.String("path", jb.corrupt))
		}
		s.backend = b
		s.known = statFiles(path)
		s.logger.Info(ctx, "store opened", zap.String("backend", string(kind)), zap.String("path", path))
		return s, nil
	}

	err := perrors.NewStorageError("open", perrors.Join(errs...))
	s.logger.Error(ctx, "no storage backend available", zap.Error(err))
	return s, err
}

// orderCandidates drops duplicates and unknown kinds and moves JSON last.
func orderCandidates(pref []Kind) []Kind {
	seen := map[Kind]bool{}
	var out []Kind
	for _, k := range pref {
		if k == KindJSON || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return append(out, KindJSON)
}

func fileFor(kind Kind) string {
	if kind == KindJSON {
		return JSONFile
	}
	return DatabaseFile
}

// Kind reports the active backend, or KindNone.
func (s *Store) Kind() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return KindNone
	}
	return s.backend.Kind()
}

// Connected reports whether a backend is open.
func (s *Store) Connected() bool {
	return s.Kind() != KindNone
}

// All returns every project in display order.
func (s *Store) All(ctx context.Context) ([]project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return []project.Project{}, nil
	}
	projects, err := s.backend.All(ctx)
	if err != nil {
		return []project.Project{}, s.storageError("load", err)
	}
	return projects, nil
}

// Get returns the project with id, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil, nil
	}
	p, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, s.storageError("load", err)
	}
	return p, nil
}

// Save inserts p or replaces the record with the same id. On update the
// stored createdAt is kept and updatedAt never moves backwards.
func (s *Store) Save(ctx context.Context, p project.Project) (project.Project, error) {
	if err := p.Validate(); err != nil {
		return p, err
	}
	p.ApplyDefaults(s.defaultEditor)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return p, s.storageError("save", perrors.ErrNotConnected)
	}

	existing, err := s.backend.Get(ctx, p.ID)
	if err != nil {
		return p, s.storageError("save", err)
	}
	now := s.now()
	if existing != nil {
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = now
		if p.UpdatedAt.Before(existing.UpdatedAt) {
			p.UpdatedAt = existing.UpdatedAt
		}
	} else {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
	}

	if err := s.backend.Upsert(ctx, p); err != nil {
		return p, s.storageError("save", err)
	}
	s.markWrite()
	s.logger.Debug(logging.WithProjectID(ctx, p.ID), "project saved", zap.Bool("update", existing != nil))
	return p, nil
}

// Delete removes id and reports how many records changed.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return 0, s.storageError("delete", perrors.ErrNotConnected)
	}
	n, err := s.backend.Delete(ctx, id)
	if err != nil {
		return 0, s.storageError("delete", err)
	}
	if n > 0 {
		s.markWrite()
	}
	return n, nil
}

// Reorder sets each project's sort order to its index in projects.
func (s *Store) Reorder(ctx context.Context, projects []project.Project) error {
	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}
	return s.ReorderIDs(ctx, ids)
}

// ReorderIDs is Reorder by id.
func (s *Store) ReorderIDs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return s.storageError("reorder", perrors.ErrNotConnected)
	}
	if err := s.backend.Reorder(ctx, ids); err != nil {
		return s.storageError("reorder", err)
	}
	s.markWrite()
	return nil
}

// Stats reports the record count and the active backend.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return Stats{Backend: KindNone}, nil
	}
	st := Stats{Backend: s.backend.Kind(), Path: s.backend.Path(), Connected: true}
	n, err := s.backend.Count(ctx)
	if err != nil {
		return st, s.storageError("count", err)
	}
	st.Count = n
	return st, nil
}

// Reload re-reads backends that cache their file.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	if r, ok := s.backend.(reloader); ok {
		if err := r.Reload(ctx); err != nil {
			return s.storageError("reload", err)
		}
	}
	s.known = statFiles(s.backend.Path())
	return nil
}

// Close releases the backend. Later calls behave as not connected.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	return err
}

// markWrite records the file state a local mutation left behind. Callers
// hold s.mu.
func (s *Store) markWrite() {
	s.known = statFiles(s.backend.Path())
}

func (s *Store) storageError(op string, err error) error {
	se := perrors.NewStorageError(op, err)
	if s.backend != nil {
		se = se.WithBackend(string(s.backend.Kind()))
	}
	return se
}
