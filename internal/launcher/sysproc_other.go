//go:build !unix && !windows

package launcher

import "os/exec"

func detach(*exec.Cmd) {}

// SetProcessGroup is a no-op on this platform.
func SetProcessGroup(*exec.Cmd) {}

// KillProcessGroup kills the child process.
func KillProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
