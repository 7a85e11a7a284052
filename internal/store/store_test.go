package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/logging"
	"github.com/myselfvenky/projectpilot/internal/project"
)

var allKinds = []Kind{KindModernc, KindNcruces, KindJSON}

func openKind(t *testing.T, kind Kind) *Store {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Dir:           t.TempDir(),
		Preference:    []Kind{kind},
		DefaultEditor: "vscode",
	})
	require.NoError(t, err)
	require.Equal(t, kind, s.Kind())
	t.Cleanup(func() { s.Close() })
	return s
}

// withOpeners replaces backend constructors for the duration of a test.
func withOpeners(t *testing.T, override map[Kind]opener) {
	t.Helper()
	saved := openers
	next := make(map[Kind]opener, len(saved))
	for k, v := range saved {
		next[k] = v
	}
	for k, v := range override {
		next[k] = v
	}
	openers = next
	t.Cleanup(func() { openers = saved })
}

func failing(ctx context.Context, path string) (Backend, error) {
	return nil, errors.New("driver failed to load")
}

func sample(name string, created time.Time) project.Project {
	p := project.New(name, "/tmp/"+name)
	p.CreatedAt = project.NormalizeTime(created)
	p.UpdatedAt = p.CreatedAt
	return p
}

func TestStore_SaveAndGet(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			s := openKind(t, kind)

			p := sample("alpha", time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.Local))
			p.Description = "first"
			p.Tags = "go, cli"
			p.ProjectIcon = "rocket"
			p.Source = project.SourceGitHubClone
			p.OriginalURL = "https://github.com/o/alpha.git"

			saved, err := s.Save(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, "vscode", saved.DefaultEditor)

			got, err := s.Get(ctx, p.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, saved, *got)
			assert.Equal(t, 123*time.Millisecond, time.Duration(got.CreatedAt.Nanosecond()))
			assert.Equal(t, time.UTC, got.CreatedAt.Location())
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			got, err := openKind(t, kind).Get(context.Background(), "nope")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestStore_UpdatePreservesCreatedAt(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			s := openKind(t, kind)

			created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			p := sample("beta", created)
			_, err := s.Save(ctx, p)
			require.NoError(t, err)

			later := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			s.now = func() time.Time { return later }
			p.Name = "beta renamed"
			p.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
			_, err = s.Save(ctx, p)
			require.NoError(t, err)

			got, err := s.Get(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, "beta renamed", got.Name)
			assert.True(t, got.CreatedAt.Equal(created))
			assert.True(t, got.UpdatedAt.Equal(later))

			// A clock running backwards never lowers updatedAt.
			s.now = func() time.Time { return created }
			_, err = s.Save(ctx, p)
			require.NoError(t, err)
			got, err = s.Get(ctx, p.ID)
			require.NoError(t, err)
			assert.True(t, got.UpdatedAt.Equal(later))
		})
	}
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	s := openKind(t, KindJSON)
	p := sample("x", time.Now())
	p.Name = "  "
	_, err := s.Save(context.Background(), p)
	assert.True(t, perrors.IsValidation(err))
}

func TestStore_AllOrdering(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			s := openKind(t, kind)
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			old := sample("old", base)
			mid := sample("mid", base.Add(time.Hour))
			recent := sample("recent", base.Add(2*time.Hour))
			pinned := sample("pinned", base)
			pinned.SortOrder = -1
			last := sample("last", base.Add(3*time.Hour))
			last.SortOrder = 5

			for _, p := range []project.Project{old, mid, recent, pinned, last} {
				_, err := s.Save(ctx, p)
				require.NoError(t, err)
			}

			all, err := s.All(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"pinned", "recent", "mid", "old", "last"}, names(all))
		})
	}
}

func TestStore_Reorder(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			s := openKind(t, kind)
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			a := sample("a", base)
			b := sample("b", base.Add(time.Minute))
			c := sample("c", base.Add(2*time.Minute))
			other := sample("other", base)
			other.SortOrder = 42
			for _, p := range []project.Project{a, b, c, other} {
				_, err := s.Save(ctx, p)
				require.NoError(t, err)
			}

			require.NoError(t, s.Reorder(ctx, []project.Project{a, b, c}))

			all, err := s.All(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b", "c", "other"}, names(all))
			for i, p := range all[:3] {
				assert.Equal(t, i, p.SortOrder)
			}
			assert.Equal(t, 42, all[3].SortOrder)

			require.NoError(t, s.ReorderIDs(ctx, []string{c.ID, "missing", a.ID}))
			all, err = s.All(ctx)
			require.NoError(t, err)
			assert.Equal(t, "c", all[0].Name)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			s := openKind(t, kind)
			p := sample("gone", time.Now())
			_, err := s.Save(ctx, p)
			require.NoError(t, err)

			n, err := s.Delete(ctx, p.ID)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)

			n, err = s.Delete(ctx, p.ID)
			require.NoError(t, err)
			assert.EqualValues(t, 0, n)

			st, err := s.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, st.Count)
			assert.Equal(t, kind, st.Backend)
		})
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			opts := Options{Dir: dir, Preference: []Kind{kind}, DefaultEditor: "vscode"}

			s, err := Open(ctx, opts)
			require.NoError(t, err)
			p, err := s.Save(ctx, sample("kept", time.Now()))
			require.NoError(t, err)
			require.NoError(t, s.Close())

			s, err = Open(ctx, opts)
			require.NoError(t, err)
			defer s.Close()
			got, err := s.Get(ctx, p.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, p, *got)
		})
	}
}

func TestOpen_FallsBackToJSON(t *testing.T) {
	withOpeners(t, map[Kind]opener{KindModernc: failing, KindNcruces: failing})
	log := logging.NewTestLogger()
	ctx := context.Background()

	s, err := Open(ctx, Options{Dir: t.TempDir(), Logger: log.Logger, DefaultEditor: "vscode"})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, KindJSON, s.Kind())
	log.AssertLogged(t, zapcore.WarnLevel, "backend unavailable")

	p, err := s.Save(ctx, sample("fallback", time.Now()))
	require.NoError(t, err)
	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, p.ID, all[0].ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Count: 1, Backend: KindJSON, Path: st.Path, Connected: true}, st)
	assert.Equal(t, JSONFile, filepath.Base(st.Path))
}

func TestOpen_FailsClosed(t *testing.T) {
	withOpeners(t, map[Kind]opener{KindModernc: failing, KindNcruces: failing, KindJSON: failing})
	ctx := context.Background()

	s, err := Open(ctx, Options{Dir: t.TempDir()})
	require.Error(t, err)
	require.NotNil(t, s)
	assert.Equal(t, perrors.KindStorage, perrors.KindOf(err))
	assert.False(t, s.Connected())

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	got, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = s.Save(ctx, sample("x", time.Now()))
	assert.ErrorIs(t, err, perrors.ErrNotConnected)
	_, err = s.Delete(ctx, "x")
	assert.ErrorIs(t, err, perrors.ErrNotConnected)
	assert.ErrorIs(t, s.ReorderIDs(ctx, []string{"x"}), perrors.ErrNotConnected)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, KindNone, st.Backend)
}

func TestOrderCandidates(t *testing.T) {
	got := orderCandidates([]Kind{KindJSON, KindNcruces, KindNcruces, KindModernc})
	assert.Equal(t, []Kind{KindNcruces, KindModernc, KindJSON}, got)
	assert.Equal(t, []Kind{KindNcruces, KindModernc}, DefaultPreference("windows"))
	assert.Equal(t, []Kind{KindModernc, KindNcruces}, DefaultPreference("darwin"))
}

func TestJSON_CorruptFileMovedAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, JSONFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(context.Background(), Options{Dir: dir, Preference: []Kind{KindJSON}})
	require.NoError(t, err)
	defer s.Close()

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestSQL_MigratesVersionOneDatabase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, DatabaseFile)

	b, err := openModernc(ctx, path)
	require.NoError(t, err)
	sb := b.(*sqlBackend)
	_, err = sb.db.ExecContext(ctx, `INSERT INTO projects (id, name, path, createdAt, updatedAt)
		VALUES ('legacy', 'Legacy', '/tmp/legacy', '2023-05-01T10:00:00.000Z', '2023-05-01T10:00:00.000Z')`)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	b, err = openModernc(ctx, path)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.Get(ctx, "legacy")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Legacy", got.Name)
	assert.Equal(t, 0, got.SortOrder)
	assert.Equal(t, "", got.Source)

	var version int
	require.NoError(t, b.(*sqlBackend).db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestWatch_ExternalChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	s, err := Open(ctx, Options{Dir: dir, Preference: []Kind{KindJSON}})
	require.NoError(t, err)
	defer s.Close()

	var changed atomic.Bool
	go s.Watch(ctx, func() { changed.Store(true) })

	external := sample("external", time.Now())
	data := `[{"id":"` + external.ID + `","name":"external","path":"/tmp/external","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`
	path := filepath.Join(dir, JSONFile)
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(data), 0o644)
		return changed.Load()
	}, 5*time.Second, 200*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		if s.Reload(context.Background()) != nil {
			return false
		}
		got, err := s.Get(context.Background(), external.ID)
		return err == nil && got != nil && got.Name == "external"
	}, 2*time.Second, 50*time.Millisecond)
}

func TestOpen_CreatesMissingDataDir(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "fresh", "projectpilot")

	first, err := Open(ctx, Options{Dir: dir})
	require.NoError(t, err)
	kind := first.Kind()
	assert.True(t, kind.IsStructured(), "first open used %s", kind)
	_, err = first.Save(ctx, sample("kept", time.Now()))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, Options{Dir: dir})
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, kind, second.Kind())
	st, err := second.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Count)
}

func TestWatch_ExternalChangeRightAfterLocalWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()
	s, err := Open(ctx, Options{Dir: dir, Preference: []Kind{KindJSON}})
	require.NoError(t, err)
	defer s.Close()

	var changed atomic.Bool
	go s.Watch(ctx, func() { changed.Store(true) })

	external := sample("external", time.Now())
	data := `[{"id":"` + external.ID + `","name":"external","path":"/tmp/external","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}]`
	path := filepath.Join(dir, JSONFile)

	// Every external write lands a few milliseconds after a local one.
	i := 0
	require.Eventually(t, func() bool {
		i++
		_, _ = s.Save(ctx, sample(fmt.Sprintf("local-%d", i), time.Now()))
		_ = os.WriteFile(path, []byte(data), 0o644)
		return changed.Load()
	}, 5*time.Second, 200*time.Millisecond)
}

func TestWatch_IgnoresOwnWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := Open(ctx, Options{Dir: t.TempDir(), Preference: []Kind{KindJSON}})
	require.NoError(t, err)
	defer s.Close()

	var changed atomic.Bool
	go s.Watch(ctx, func() { changed.Store(true) })
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_, err := s.Save(ctx, sample(fmt.Sprintf("local-%d", i), time.Now()))
		require.NoError(t, err)
	}
	time.Sleep(4 * watchDebounce)
	assert.False(t, changed.Load())
}

func names(projects []project.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}
