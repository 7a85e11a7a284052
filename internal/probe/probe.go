// Package probe answers existence questions about paths and commands. No
// probe returns an error: anything that cannot be confirmed is reported absent.
package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/myselfvenky/projectpilot/internal/platform"
)

// DefaultTimeout bounds a single command-existence check.
const DefaultTimeout = 3 * time.Second

// Probe checks paths and PATH commands for one platform.
type Probe struct {
	platform *platform.Platform
	timeout  time.Duration
}

// New creates a Probe. A non-positive timeout selects DefaultTimeout.
func New(p *platform.Platform, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Probe{platform: p, timeout: timeout}
}

// Exists reports whether path is present on disk.
func (p *Probe) Exists(path string) bool {
	return Exists(path)
}

// ExistsWithWildcard reports whether pattern matches an entry on disk.
func (p *Probe) ExistsWithWildcard(pattern string) bool {
	return ExistsWithWildcard(pattern)
}

// CommandOnPath runs the platform's command-existence utility for command.
// It succeeds only on a clean exit with non-empty output.
func (p *Probe) CommandOnPath(ctx context.Context, command string) bool {
	if strings.TrimSpace(command) == "" || p.platform.CheckCommand == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.platform.CheckCommand, command)
	cmd.WaitDelay = 500 * time.Millisecond
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// Exists reports whether path is present on disk. Any stat error, including
// permission errors, counts as absent.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ExistsWithWildcard reports whether any entry of pattern's parent directory
// matches its basename, where "*" matches any run of characters. Patterns
// without "*" are plain existence checks. Only the last path segment may
// contain wildcards.
func ExistsWithWildcard(pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return Exists(pattern)
	}

	dir, base := filepath.Split(pattern)
	if strings.Contains(dir, "*") {
		return false
	}
	if dir == "" {
		dir = "."
	}

	matcher, err := compileBasename(base)
	if err != nil {
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if matcher.Match(entry.Name()) {
			return true
		}
	}
	return false
}

// compileBasename escapes everything except "*" so names containing glob
// metacharacters like "Notepad++" or "[x86]" match literally.
func compileBasename(base string) (glob.Glob, error) {
	pieces := strings.Split(base, "*")
	for i, piece := range pieces {
		pieces[i] = glob.QuoteMeta(piece)
	}
	return glob.Compile(strings.Join(pieces, "*"))
}
