package editor

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myselfvenky/projectpilot/internal/platform"
)

type fakeProber struct {
	mu       sync.Mutex
	commands map[string]bool
	paths    map[string]bool
	globs    map[string]bool
	jitter   bool
	calls    []string
}

func (f *fakeProber) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProber) CommandOnPath(_ context.Context, command string) bool {
	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
	}
	f.record("cmd:" + command)
	return f.commands[command]
}

func (f *fakeProber) Exists(path string) bool {
	f.record("exists:" + path)
	return f.paths[path]
}

func (f *fakeProber) ExistsWithWildcard(pattern string) bool {
	f.record("glob:" + pattern)
	return f.globs[pattern]
}

func (f *fakeProber) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func TestCatalog(t *testing.T) {
	editors := Catalog()
	require.Len(t, editors, 23)
	assert.Equal(t, "vscode", editors[0].ID)
	assert.Equal(t, "zed", editors[len(editors)-1].ID)

	seen := make(map[string]bool)
	for _, e := range editors {
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Command)
	}

	editors[0].ID = "mutated"
	assert.Equal(t, "vscode", Catalog()[0].ID, "Catalog returns a copy")
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("VSCode")
	require.True(t, ok)
	assert.Equal(t, "code", d.Command)

	_, ok = Lookup("notepad")
	assert.False(t, ok)
}

func TestDetect(t *testing.T) {
	desc := Descriptor{
		ID: "foo", Name: "Foo", Command: "foo",
		Hints: map[string][]string{"windows": {`~\Tools\Foo*`}},
	}

	t.Run("command on path short-circuits", func(t *testing.T) {
		prober := &fakeProber{commands: map[string]bool{"foo": true}}
		d := NewDetector(platform.Windows(`C:\Users\dev`), prober, nil)

		assert.True(t, d.Detect(context.Background(), desc))
		assert.Equal(t, []string{"cmd:foo"}, prober.Calls())
	})

	t.Run("install directory", func(t *testing.T) {
		prober := &fakeProber{paths: map[string]bool{`C:\Program Files (x86)\Foo`: true}}
		d := NewDetector(platform.Windows(`C:\Users\dev`), prober, nil)

		assert.True(t, d.Detect(context.Background(), desc))
		assert.NotContains(t, prober.Calls(), `glob:C:\Users\dev\Tools\Foo*`)
	})

	t.Run("wildcard hint", func(t *testing.T) {
		prober := &fakeProber{globs: map[string]bool{`C:\Users\dev\Tools\Foo*`: true}}
		d := NewDetector(platform.Windows(`C:\Users\dev`), prober, nil)

		assert.True(t, d.Detect(context.Background(), desc))
	})

	t.Run("nothing resolves", func(t *testing.T) {
		prober := &fakeProber{}
		d := NewDetector(platform.Windows(`C:\Users\dev`), prober, nil)

		assert.False(t, d.Detect(context.Background(), desc))
		calls := prober.Calls()
		assert.Equal(t, "cmd:foo", calls[0])
		assert.Equal(t, `glob:C:\Users\dev\Tools\Foo*`, calls[len(calls)-1])
	})

	t.Run("hints for other platforms are ignored", func(t *testing.T) {
		prober := &fakeProber{globs: map[string]bool{`C:\Users\dev\Tools\Foo*`: true}}
		d := NewDetector(platform.Linux("/home/dev"), prober, nil)

		assert.False(t, d.Detect(context.Background(), desc))
	})
}

func TestDetect_LinuxBinRoot(t *testing.T) {
	prober := &fakeProber{paths: map[string]bool{"/home/dev/.local/bin/zed": true}}
	d := NewDetector(platform.Linux("/home/dev"), prober, nil)

	zed, _ := Lookup("zed")
	assert.True(t, d.Detect(context.Background(), zed))
}

func TestListWithStatus_PreservesCatalogOrder(t *testing.T) {
	prober := &fakeProber{
		commands: map[string]bool{"code": true, "vim": true, "zed": true},
		jitter:   true,
	}
	d := NewDetector(platform.Linux("/home/dev"), prober, nil)

	want := IDs()
	for i := 0; i < 5; i++ {
		statuses := d.ListWithStatus(context.Background(), Catalog())
		require.Len(t, statuses, len(want))
		for j, s := range statuses {
			assert.Equal(t, want[j], s.ID)
		}

		installed := Installed(statuses)
		ids := make([]string, len(installed))
		for j, s := range installed {
			ids[j] = s.ID
		}
		assert.Equal(t, []string{"vscode", "vim", "zed"}, ids)
	}
}
