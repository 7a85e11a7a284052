package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/myselfvenky/projectpilot/internal/project"
)

// currentSchemaVersion is the current database schema version.
const currentSchemaVersion = 2

// timeLayout keeps a fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000Z"

const projectColumns = `id, name, description, path, tags, defaultEditor, projectIcon,
	createdAt, updatedAt, sortOrder, source, originalUrl`

// sqlBackend stores projects in a SQLite database through database/sql.
// Both SQLite drivers share it; only the driver name and DSN differ.
type sqlBackend struct {
	kind Kind
	path string
	db   *sql.DB
}

func openSQL(ctx context.Context, kind Kind, driver, dsn, path string) (*sqlBackend, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps transactions and pragmas on one handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	b := &sqlBackend{kind: kind, path: path, db: db}
	if err := b.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return b, nil
}

func (b *sqlBackend) Kind() Kind   { return b.kind }
func (b *sqlBackend) Path() string { return b.path }
func (b *sqlBackend) Close() error { return b.db.Close() }

// initSchema applies pending migrations in order.
func (b *sqlBackend) initSchema(ctx context.Context) error {
	const schemaVersionTable = `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`
	if _, err := b.db.ExecContext(ctx, schemaVersionTable); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := b.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("check schema version: %w", err)
	}

	migrations := []func(context.Context, *sql.Tx) error{migrateToV1, migrateToV2}
	for i := version; i < currentSchemaVersion; i++ {
		if err := b.migrate(ctx, i+1, migrations[i]); err != nil {
			return fmt.Errorf("migrate to v%d: %w", i+1, err)
		}
	}
	return nil
}

func (b *sqlBackend) migrate(ctx context.Context, version int, fn func(context.Context, *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
		version, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit()
}

// migrateToV1 creates the projects table.
func migrateToV1(ctx context.Context, tx *sql.Tx) error {
	const projectsTable = `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			path TEXT NOT NULL,
			tags TEXT,
			defaultEditor TEXT,
			projectIcon TEXT DEFAULT 'folder',
			createdAt TEXT NOT NULL,
			updatedAt TEXT NOT NULL,
			sortOrder INTEGER DEFAULT 0
		)`
	_, err := tx.ExecContext(ctx, projectsTable)
	return err
}

// migrateToV2 adds clone provenance and an index matching the list order.
func migrateToV2(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`ALTER TABLE projects ADD COLUMN source TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE projects ADD COLUMN originalUrl TEXT NOT NULL DEFAULT ''`,
		`CREATE INDEX IF NOT EXISTS idx_projects_order ON projects(sortOrder, createdAt DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (project.Project, error) {
	var (
		p                    project.Project
		description, tags    sql.NullString
		editor, icon         sql.NullString
		createdAt, updatedAt string
		sortOrder            sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, &description, &p.Path, &tags, &editor, &icon,
		&createdAt, &updatedAt, &sortOrder, &p.Source, &p.OriginalURL)
	if err != nil {
		return p, err
	}
	p.Description = description.String
	p.Tags = tags.String
	p.DefaultEditor = editor.String
	p.ProjectIcon = icon.String
	p.SortOrder = int(sortOrder.Int64)
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return p, fmt.Errorf("project %s createdAt: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return p, fmt.Errorf("project %s updatedAt: %w", p.ID, err)
	}
	return p, nil
}

func formatTime(t time.Time) string {
	return project.NormalizeTime(t).Format(timeLayout)
}

// parseTime accepts the fixed layout and any RFC 3339 variant.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return project.NormalizeTime(t), nil
}

func (b *sqlBackend) All(ctx context.Context) ([]project.Project, error) {
	rows, err := b.db.QueryContext(ctx,
		"SELECT "+projectColumns+" FROM projects ORDER BY sortOrder ASC, createdAt DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (b *sqlBackend) Get(ctx context.Context, id string) (*project.Project, error) {
	row := b.db.QueryRowContext(ctx, "SELECT "+projectColumns+" FROM projects WHERE id = ?", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *sqlBackend) Upsert(ctx context.Context, p project.Project) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			path = excluded.path,
			tags = excluded.tags,
			defaultEditor = excluded.defaultEditor,
			projectIcon = excluded.projectIcon,
			updatedAt = excluded.updatedAt,
			sortOrder = excluded.sortOrder,
			source = excluded.source,
			originalUrl = excluded.originalUrl`,
		p.ID, p.Name, p.Description, p.Path, p.Tags, p.DefaultEditor, p.ProjectIcon,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt), p.SortOrder, p.Source, p.OriginalURL)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

func (b *sqlBackend) Delete(ctx context.Context, id string) (int64, error) {
	res, err := b.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete project: %w", err)
	}
	return res.RowsAffected()
}

func (b *sqlBackend) Reorder(ctx context.Context, ids []string) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "UPDATE projects SET sortOrder = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, id); err != nil {
			return fmt.Errorf("reorder %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (b *sqlBackend) Count(ctx context.Context) (int, error) {
	var n int
	err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&n)
	return n, err
}
