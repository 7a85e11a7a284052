package app

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/platform"
)

// FolderPicker asks the user for a directory. An empty path with a nil
// error means the user cancelled.
type FolderPicker interface {
	PickFolder(ctx context.Context) (string, error)
}

// CommandPicker runs a native dialog helper and reads the chosen path from
// its output.
type CommandPicker struct {
	Command []string
}

// NewCommandPicker returns the dialog helper for p, or nil when the
// platform has none.
func NewCommandPicker(p *platform.Platform) FolderPicker {
	switch p.OS {
	case "darwin":
		return &CommandPicker{Command: []string{"osascript", "-e", `POSIX path of (choose folder with prompt "Select project folder")`}}
	case "windows":
		script := `Add-Type -AssemblyName System.Windows.Forms; $d = New-Object System.Windows.Forms.FolderBrowserDialog; if ($d.ShowDialog() -eq 'OK') { $d.SelectedPath }`
		return &CommandPicker{Command: []string{"powershell", "-NoProfile", "-Command", script}}
	case "linux", "freebsd", "openbsd", "netbsd":
		return &CommandPicker{Command: []string{"zenity", "--file-selection", "--directory", "--title=Select project folder"}}
	}
	return nil
}

// PickFolder runs the helper. A helper exiting with status 1 is a cancel.
func (c *CommandPicker) PickFolder(ctx context.Context) (string, error) {
	if len(c.Command) == 0 {
		return "", perrors.ErrUnsupported
	}
	out, err := exec.CommandContext(ctx, c.Command[0], c.Command[1:]...).Output()
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
		return "", nil
	case errors.Is(err, exec.ErrNotFound):
		return "", perrors.NewToolUnavailableError(c.Command[0])
	case err != nil:
		return "", err
	}
	path := strings.TrimSpace(string(out))
	// osascript reports directories with a trailing slash.
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path, nil
}
