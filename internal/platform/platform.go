// Package platform describes the per-OS conventions used by editor
// detection and process launching: install roots, the command-existence
// utility, shell wrapping, and the system openers.
package platform

import (
	"os"
	"path"
	"runtime"
	"strings"
)

// Platform is a capability object. Detection and launch code consult it
// instead of branching on runtime.GOOS, so tests can substitute another OS.
type Platform struct {
	OS   string
	Home string
	// Sep is the path separator used when building candidate paths.
	Sep string

	// AppRoots are application directories searched by display name.
	AppRoots []string
	// AppSuffix is appended to names under AppRoots (".app" on macOS).
	AppSuffix string
	// BinRoots are directories searched by command name.
	BinRoots []string

	// CheckCommand resolves a command name on PATH ("which" or "where").
	CheckCommand string
	// Shell, when set, wraps name-only executables so batch files resolve.
	Shell []string
	// BundleOpener opens an application bundle by name, e.g. "open -a".
	BundleOpener []string
	// FolderOpener reveals a directory in the file manager.
	FolderOpener []string
	// URLOpener hands a URL to the default browser.
	URLOpener []string
}

// Current returns the Platform for the running process.
func Current() *Platform {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	switch runtime.GOOS {
	case "darwin":
		return Darwin(home)
	case "windows":
		return Windows(home)
	default:
		return Linux(home)
	}
}

// Darwin returns the macOS conventions rooted at home.
func Darwin(home string) *Platform {
	return &Platform{
		OS:           "darwin",
		Home:         home,
		Sep:          "/",
		AppRoots:     []string{"/Applications", "~/Applications"},
		AppSuffix:    ".app",
		CheckCommand: "which",
		BundleOpener: []string{"open", "-a"},
		FolderOpener: []string{"open"},
		URLOpener:    []string{"open"},
	}
}

// Windows returns the Windows conventions rooted at home.
func Windows(home string) *Platform {
	return &Platform{
		OS:   "windows",
		Home: home,
		Sep:  `\`,
		AppRoots: []string{
			`C:\Program Files`,
			`C:\Program Files (x86)`,
			`~\AppData\Local`,
			`~\AppData\Local\Programs`,
		},
		CheckCommand: "where",
		Shell:        []string{"cmd", "/c"},
		FolderOpener: []string{"explorer"},
		URLOpener:    []string{"rundll32", "url.dll,FileProtocolHandler"},
	}
}

// Linux returns the Linux (and other Unix) conventions rooted at home.
func Linux(home string) *Platform {
	return &Platform{
		OS:           "linux",
		Home:         home,
		Sep:          "/",
		AppRoots:     []string{"/opt"},
		BinRoots:     []string{"/usr/bin", "/usr/local/bin", "/snap/bin", "~/.local/bin"},
		CheckCommand: "which",
		FolderOpener: []string{"xdg-open"},
		URLOpener:    []string{"xdg-open"},
	}
}

// Join joins path elements with the platform separator.
func (p *Platform) Join(elem ...string) string {
	if p.Sep == "/" {
		return path.Join(elem...)
	}
	parts := make([]string, 0, len(elem))
	for i, e := range elem {
		if i > 0 {
			e = strings.TrimLeft(e, p.Sep+"/")
		}
		if i < len(elem)-1 {
			e = strings.TrimRight(e, p.Sep+"/")
		}
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, p.Sep)
}

// Expand replaces a leading "~" with the home directory.
func (p *Platform) Expand(s string) string {
	if s == "~" {
		return p.Home
	}
	if strings.HasPrefix(s, "~/") || strings.HasPrefix(s, `~\`) {
		return p.Join(p.Home, s[2:])
	}
	return s
}

// InstallCandidates lists the conventional install locations for an editor,
// built from its display name, optional alias, and PATH command.
func (p *Platform) InstallCandidates(name, alias, command string) []string {
	names := []string{name}
	if alias != "" && alias != name {
		names = []string{alias, name}
	}

	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, root := range p.AppRoots {
		for _, n := range names {
			if n == "" {
				continue
			}
			add(p.Join(p.Expand(root), n+p.AppSuffix))
		}
	}
	if command != "" {
		for _, root := range p.BinRoots {
			add(p.Join(p.Expand(root), command))
		}
	}
	return out
}

// SupportsBundles reports whether editors can be opened by bundle name.
func (p *Platform) SupportsBundles() bool {
	return len(p.BundleOpener) > 0
}

// UsesShell reports whether name-only executables need shell interpretation.
func (p *Platform) UsesShell() bool {
	return len(p.Shell) > 0
}

// WrapShell rewrites command and args to run through the platform shell.
// Platforms without a shell wrapper return them unchanged.
func (p *Platform) WrapShell(command string, args []string) (string, []string) {
	if !p.UsesShell() {
		return command, args
	}
	wrapped := make([]string, 0, len(p.Shell)+len(args))
	wrapped = append(wrapped, p.Shell[1:]...)
	wrapped = append(wrapped, command)
	wrapped = append(wrapped, args...)
	return p.Shell[0], wrapped
}
