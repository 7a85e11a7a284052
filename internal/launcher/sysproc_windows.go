//go:build windows

package launcher

import (
	"os/exec"
	"strconv"
	"syscall"

	"golang.org/x/sys/windows"
)

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
		HideWindow:    true,
	}
}

// SetProcessGroup starts the child in a new process group.
func SetProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
		HideWindow:    true,
	}
}

// KillProcessGroup terminates the child and its descendants. Windows
// process groups only route console signals, so the tree is walked by
// taskkill; the direct kill covers a missing or failing taskkill.
func KillProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	tree := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(cmd.Process.Pid))
	tree.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if err := tree.Run(); err != nil {
		return cmd.Process.Kill()
	}
	return nil
}
