// Package clone runs the repository clone workflow: validate the request,
// run the clone tool with a time limit, and classify the outcome.
package clone

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/launcher"
	"github.com/myselfvenky/projectpilot/internal/logging"
)

// DefaultTimeout is the ceiling on one clone.
const DefaultTimeout = 5 * time.Minute

// DefaultTool is the clone executable.
const DefaultTool = "git"

// State is a step of the clone workflow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateCloning
	StateSucceeded
	StateFailed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateCloning:
		return "cloning"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the workflow.
func (s State) Terminal() bool {
	return s >= StateSucceeded
}

// Request names what to clone and where.
type Request struct {
	URL         string `json:"url"`
	Destination string `json:"destinationPath"`
	Name        string `json:"projectName"`
}

// Result is the terminal outcome of Clone.
type Result struct {
	State State
	// URL is the normalized URL passed to the tool.
	URL         string
	ProjectPath string
	Reason      string
	Stdout      string
	Stderr      string
	// Remote and Branch are read from the cloned repository when possible.
	Remote string
	Branch string
	Err    error
}

// OK reports whether the clone succeeded.
func (r Result) OK() bool { return r.State == StateSucceeded }

// CommandProber resolves commands on PATH.
type CommandProber interface {
	CommandOnPath(ctx context.Context, command string) bool
}

// Options configure a Cloner.
type Options struct {
	Tool    string
	Timeout time.Duration
	// OnState observes every transition, terminal ones included.
	OnState func(State)
	// Progress receives tool output line by line.
	Progress func(line string)
}

// Cloner runs clones with one tool.
type Cloner struct {
	prober CommandProber
	logger *logging.Logger
	opts   Options
}

// New creates a Cloner. Zero options select DefaultTool and DefaultTimeout.
func New(prober CommandProber, logger *logging.Logger, opts Options) *Cloner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Tool == "" {
		opts.Tool = DefaultTool
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Cloner{prober: prober, logger: logger.Named("clone"), opts: opts}
}

// Clone validates req, runs the tool, and returns a terminal Result. It
// never returns a non-terminal state.
func (c *Cloner) Clone(ctx context.Context, req Request) Result {
	ctx = logging.WithOperation(ctx, "clone")
	var res Result

	c.transition(StateValidating)
	if reason, err := c.validate(ctx, req); err != nil {
		return c.finish(ctx, res, StateFailed, reason, err)
	}

	res.URL = NormalizeURL(req.URL)
	target := filepath.Join(req.Destination, req.Name)

	c.transition(StateCloning)
	runCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	progress := c.opts.Progress
	if progress != nil {
		var mu sync.Mutex
		report := progress
		progress = func(line string) {
			mu.Lock()
			defer mu.Unlock()
			report(line)
		}
	}
	stdout := &output{progress: progress}
	stderr := &output{progress: progress}
	cmd := exec.CommandContext(runCtx, c.opts.Tool, "clone", res.URL, req.Name)
	cmd.Dir = req.Destination
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	launcher.SetProcessGroup(cmd)
	cmd.Cancel = func() error { return launcher.KillProcessGroup(cmd) }
	cmd.WaitDelay = 2 * time.Second

	c.logger.Info(ctx, "clone started", zap.String("url", res.URL), zap.String("target", target))
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var execErr *exec.Error
	switch {
	case ctx.Err() != nil:
		removePartial(target)
		return c.finish(ctx, res, StateFailed, ReasonCanceled,
			perrors.NewRemoteOperationError("clone", ReasonCanceled, perrors.ErrCanceled))

	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		removePartial(target)
		return c.finish(ctx, res, StateTimedOut, ReasonTimedOut,
			perrors.NewRemoteOperationError("clone", ReasonTimedOut, perrors.ErrTimeout))

	case errors.As(err, &execErr):
		return c.finish(ctx, res, StateFailed, ReasonToolMissing,
			perrors.NewProcessLaunchError(c.opts.Tool, err).WithNotFound(errors.Is(err, exec.ErrNotFound)))

	case err != nil:
		reason := Classify(res.Stderr)
		return c.finish(ctx, res, StateFailed, reason,
			perrors.NewRemoteOperationError("clone", reason, err))

	case !dirExists(target):
		return c.finish(ctx, res, StateFailed, ReasonDirectoryMissing,
			perrors.NewRemoteOperationError("clone", ReasonDirectoryMissing, nil))
	}

	res.ProjectPath = target
	res.Remote, res.Branch = inspect(target)
	return c.finish(ctx, res, StateSucceeded, "", nil)
}

// validate returns the failure reason and error for a request that cannot run.
func (c *Cloner) validate(ctx context.Context, req Request) (string, error) {
	switch {
	case strings.TrimSpace(req.URL) == "":
		return ReasonMissingURL, perrors.NewValidationError("url", "Repository URL is required")
	case strings.TrimSpace(req.Destination) == "":
		return ReasonMissingDestination, perrors.NewValidationError("destinationPath", "Destination directory is required")
	case strings.TrimSpace(req.Name) == "":
		return ReasonMissingName, perrors.NewValidationError("projectName", "Project name is required")
	case !validName(req.Name):
		return ReasonInvalidName, perrors.NewValidationError("projectName", "Project name must be a single directory name")
	case !dirExists(req.Destination):
		return ReasonDestinationMissing, perrors.NewNotFoundError("destination", req.Destination)
	}
	target := filepath.Join(req.Destination, req.Name)
	if _, err := os.Lstat(target); err == nil {
		return ReasonTargetExists, perrors.NewValidationError("projectName", "Target directory already exists: "+target)
	}
	if !c.prober.CommandOnPath(ctx, c.opts.Tool) {
		return ReasonToolMissing, perrors.NewToolUnavailableError(c.opts.Tool)
	}
	return "", nil
}

func (c *Cloner) transition(s State) {
	if c.opts.OnState != nil {
		c.opts.OnState(s)
	}
}

func (c *Cloner) finish(ctx context.Context, res Result, s State, reason string, err error) Result {
	res.State = s
	res.Reason = reason
	res.Err = err
	c.transition(s)

	fields := []zap.Field{zap.Stringer("state", s)}
	if s == StateSucceeded {
		c.logger.Info(ctx, "clone finished", append(fields, zap.String("path", res.ProjectPath), zap.String("branch", res.Branch))...)
	} else {
		c.logger.Warn(ctx, "clone failed", append(fields, zap.String("reason", reason), zap.Error(err))...)
	}
	return res
}

func validName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// removePartial deletes what an interrupted clone left behind. Validation
// guarantees target did not exist before the clone started.
func removePartial(target string) {
	_ = os.RemoveAll(target)
}

// output accumulates a stream without limit and forwards complete lines to
// progress. Carriage returns end a line, as in the tool's progress meter.
type output struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	line     []byte
	progress func(string)
}

var _ io.Writer = (*output)(nil)

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buf.Write(p)
	if o.progress == nil {
		return len(p), nil
	}
	for _, b := range p {
		if b == '\n' || b == '\r' {
			if len(o.line) > 0 {
				o.progress(string(o.line))
				o.line = o.line[:0]
			}
			continue
		}
		o.line = append(o.line, b)
	}
	return len(p), nil
}

func (o *output) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.String()
}
