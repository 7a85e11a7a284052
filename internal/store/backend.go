package store

import (
	"context"

	"github.com/myselfvenky/projectpilot/internal/project"
)

// Kind names a storage backend.
type Kind string

const (
	KindModernc Kind = "sqlite-modernc"
	KindNcruces Kind = "sqlite-ncruces"
	KindJSON    Kind = "json"
	// KindNone is reported when no backend could be opened.
	KindNone Kind = "none"
)

// IsStructured reports whether k is a relational engine.
func (k Kind) IsStructured() bool {
	return k == KindModernc || k == KindNcruces
}

// File names inside the data directory.
const (
	DatabaseFile = "projectpilot.db"
	JSONFile     = "projectpilot-projects.json"
)

// Backend is one durable encoding of the project list. Implementations are
// not safe for concurrent use; Store serializes access.
type Backend interface {
	Kind() Kind
	// Path is the file holding the data.
	Path() string
	// All returns every project ordered by sort order, then newest first.
	All(ctx context.Context) ([]project.Project, error)
	// Get returns nil when id is absent.
	Get(ctx context.Context, id string) (*project.Project, error)
	// Upsert writes p in full, inserting or replacing by id.
	Upsert(ctx context.Context, p project.Project) error
	// Delete reports the number of records removed.
	Delete(ctx context.Context, id string) (int64, error)
	// Reorder sets each listed project's sort order to its index. Unknown
	// ids are skipped. Either every update applies or none does.
	Reorder(ctx context.Context, ids []string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// reloader is implemented by backends that cache file contents in memory.
type reloader interface {
	Reload(ctx context.Context) error
}
