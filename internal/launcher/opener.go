package launcher

import (
	"context"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/editor"
	"github.com/myselfvenky/projectpilot/internal/probe"
)

// ErrTerminalEditor is returned by OpenProject for editors that must run in
// the foreground terminal. Use EditorCommand to run them.
var ErrTerminalEditor = perrors.New("editor runs in the terminal")

// IsTerminalEditorError reports whether err asks for a foreground editor.
func IsTerminalEditorError(err error) bool {
	return perrors.Is(err, ErrTerminalEditor)
}

// Opener opens projects in editors, folders in the file manager, and URLs
// in the browser.
type Opener struct {
	launcher *Launcher
}

// NewOpener creates an Opener backed by l.
func NewOpener(l *Launcher) *Opener {
	return &Opener{launcher: l}
}

// OpenProject opens path in the editor identified by editorID. On platforms
// with application bundles it first tries the bundle, falling back to the
// editor's PATH command if that fails.
func (o *Opener) OpenProject(ctx context.Context, path, editorID string) error {
	if !probe.Exists(path) {
		return perrors.NewNotFoundError("project path", path)
	}
	desc, ok := editor.Lookup(editorID)
	if !ok {
		return perrors.NewNotFoundError("editor", editorID)
	}
	if desc.Terminal {
		return ErrTerminalEditor
	}

	l := o.launcher
	p := l.platform
	if desc.Bundle != "" && p.SupportsBundles() {
		args := append(append([]string{}, p.BundleOpener[1:]...), desc.Bundle, path)
		out := l.Launch(ctx, p.BundleOpener[0], args, Options{ConfirmExit: true})
		if out.Started {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.logger.Info(ctx, "bundle open failed, trying command line",
			zap.String("editor", desc.ID), zap.Error(out.Err))
	}

	out := l.Launch(ctx, desc.Command, []string{path}, Options{Shell: p.UsesShell()})
	if out.Started {
		return nil
	}
	var launchErr *perrors.ProcessLaunchError
	if perrors.As(out.Err, &launchErr) {
		return launchErr.WithName(desc.Name)
	}
	return out.Err
}

// EditorCommand builds the foreground command for a terminal editor.
func (o *Opener) EditorCommand(path, editorID string) (*exec.Cmd, error) {
	if !probe.Exists(path) {
		return nil, perrors.NewNotFoundError("project path", path)
	}
	desc, ok := editor.Lookup(editorID)
	if !ok {
		return nil, perrors.NewNotFoundError("editor", editorID)
	}
	if _, err := exec.LookPath(desc.Command); err != nil {
		return nil, perrors.NewProcessLaunchError(desc.Command, err).WithNotFound(true).WithName(desc.Name)
	}
	return Attached(desc.Command, []string{path}, path), nil
}

// OpenFolder reveals path in the platform file manager.
func (o *Opener) OpenFolder(ctx context.Context, path string) error {
	if !probe.Exists(path) {
		return perrors.NewNotFoundError("folder", path)
	}
	opener := o.launcher.platform.FolderOpener
	if len(opener) == 0 {
		return perrors.ErrUnsupported
	}
	return o.launchOpener(ctx, opener, path)
}

// OpenExternal opens url in the default browser. URLs without an http or
// https scheme get https:// prepended.
func (o *Opener) OpenExternal(ctx context.Context, url string) error {
	url = NormalizeURL(url)
	if url == "" {
		return perrors.NewValidationError("url", "Invalid URL provided")
	}
	opener := o.launcher.platform.URLOpener
	if len(opener) == 0 {
		return perrors.ErrUnsupported
	}
	return o.launchOpener(ctx, opener, url)
}

func (o *Opener) launchOpener(ctx context.Context, opener []string, target string) error {
	args := append(append([]string{}, opener[1:]...), target)
	out := o.launcher.Launch(ctx, opener[0], args, Options{})
	if out.Started {
		return nil
	}
	return out.Err
}

// NormalizeURL trims url and prefixes https:// when it has no http(s) scheme.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url
}
