// Package launcher starts detached external processes (editors, file
// managers, browsers) and reports whether they could be started.
package launcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/logging"
	"github.com/myselfvenky/projectpilot/internal/platform"
)

// DefaultWait is how long Launch waits for a start failure before assuming
// the process is up.
const DefaultWait = 1500 * time.Millisecond

// Options controls a single launch.
type Options struct {
	// Dir is the working directory; empty inherits the caller's.
	Dir string
	// Shell runs the command through the platform shell, if it has one.
	Shell bool
	// Wait overrides the launcher's confirmation window.
	Wait time.Duration
	// ConfirmExit waits for the process to exit within the window and
	// treats a non-zero exit as failure. Used for short-lived openers such
	// as "open -a" whose exit status is the only error signal.
	ConfirmExit bool
	// Env is appended to the inherited environment.
	Env []string
}

// Outcome is the result of one launch attempt.
type Outcome struct {
	Started bool
	PID     int
	Err     error
}

// event identifies which signal decided an attempt.
type event int

const (
	eventSpawn event = iota
	eventError
	eventExit
	eventTimeout
	eventCanceled
)

func (e event) String() string {
	switch e {
	case eventSpawn:
		return "spawn"
	case eventError:
		return "error"
	case eventExit:
		return "exit"
	case eventTimeout:
		return "timeout"
	case eventCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// attempt has exactly one terminal transition. Later signals are dropped.
type attempt struct {
	decided atomic.Bool
	done    chan struct{}
	outcome Outcome
	event   event
}

func newAttempt() *attempt {
	return &attempt{done: make(chan struct{})}
}

func (a *attempt) resolve(o Outcome, ev event) bool {
	if !a.decided.CompareAndSwap(false, true) {
		return false
	}
	a.outcome = o
	a.event = ev
	close(a.done)
	return true
}

// Launcher starts detached processes on one platform.
type Launcher struct {
	platform *platform.Platform
	logger   *logging.Logger
	wait     time.Duration
}

// New creates a Launcher. A non-positive wait selects DefaultWait.
func New(p *platform.Platform, logger *logging.Logger, wait time.Duration) *Launcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if wait <= 0 {
		wait = DefaultWait
	}
	return &Launcher{platform: p, logger: logger.Named("launcher"), wait: wait}
}

// Platform returns the platform the launcher was built for.
func (l *Launcher) Platform() *platform.Platform {
	return l.platform
}

// Launch starts command detached from the caller. The first of start
// failure, successful spawn, the wait window expiring, or ctx ending
// decides the outcome. A process is killed only when the outcome reports
// failure, so a started process never outlives a failed launch. Its exit
// status after a successful outcome is only logged.
func (l *Launcher) Launch(ctx context.Context, command string, args []string, opts Options) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Err: err}
	}
	name, argv := command, args
	if opts.Shell {
		name, argv = l.platform.WrapShell(command, args)
	}
	wait := opts.Wait
	if wait <= 0 {
		wait = l.wait
	}

	cmd := exec.Command(name, argv...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	detach(cmd)

	a := newAttempt()
	go l.run(ctx, cmd, command, opts.ConfirmExit, a)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-a.done:
	case <-timer.C:
		a.resolve(Outcome{Started: true}, eventTimeout)
	case <-ctx.Done():
		a.resolve(Outcome{Err: ctx.Err()}, eventCanceled)
	}
	<-a.done

	l.logger.Debug(ctx, "launch resolved",
		zap.String("command", command),
		zap.Strings("args", args),
		zap.Stringer("event", a.event),
		zap.Bool("started", a.outcome.Started))
	return a.outcome
}

func (l *Launcher) run(ctx context.Context, cmd *exec.Cmd, command string, confirmExit bool, a *attempt) {
	if a.decided.Load() {
		return
	}
	if err := cmd.Start(); err != nil {
		a.resolve(Outcome{Err: launchError(command, err)}, eventError)
		return
	}
	pid := cmd.Process.Pid
	if !confirmExit {
		a.resolve(Outcome{Started: true, PID: pid}, eventSpawn)
	}
	go func() {
		<-a.done
		if !a.outcome.Started {
			// The caller was told the launch failed.
			_ = cmd.Process.Kill()
		}
	}()

	// Wait releases the process handle.
	err := cmd.Wait()
	if confirmExit {
		if err != nil {
			a.resolve(Outcome{Err: launchError(command, err)}, eventExit)
		} else {
			a.resolve(Outcome{Started: true, PID: pid}, eventExit)
		}
	}
	if err != nil {
		// Editors commonly exit non-zero after handing off to a running
		// instance; this is not a launch failure.
		l.logger.Debug(ctx, "launched process exited", zap.String("command", command), zap.Int("pid", pid), zap.Error(err))
	}
}

// launchError maps a start error to ProcessLaunchError, flagging a missing
// executable.
func launchError(command string, err error) error {
	notFound := errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
	return perrors.NewProcessLaunchError(command, err).WithNotFound(notFound)
}

// Attached builds a command that runs in the foreground with the caller's
// terminal, for editors that need one.
func Attached(command string, args []string, dir string) *exec.Cmd {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}
