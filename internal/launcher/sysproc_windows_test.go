//go:build windows

package launcher

import (
	"bytes"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillProcessGroup_KillsDescendants(t *testing.T) {
	// ping runs as a grandchild holding the stdout pipe; Wait only returns
	// once it is gone too.
	var out bytes.Buffer
	cmd := exec.Command("cmd", "/c", "ping -n 30 127.0.0.1")
	cmd.Stdout = &out
	SetProcessGroup(cmd)
	require.NoError(t, cmd.Start())
	time.Sleep(500 * time.Millisecond)

	require.NoError(t, KillProcessGroup(cmd))

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		assert.Fail(t, "process tree still running after KillProcessGroup")
	}
}
