// Package app is the boundary between the core components and the user
// interfaces. Every operation returns a result value; errors and panics are
// converted to text and never escape.
package app

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/myselfvenky/projectpilot/internal/clone"
	"github.com/myselfvenky/projectpilot/internal/config"
	"github.com/myselfvenky/projectpilot/internal/editor"
	perrors "github.com/myselfvenky/projectpilot/internal/errors"
	"github.com/myselfvenky/projectpilot/internal/launcher"
	"github.com/myselfvenky/projectpilot/internal/logging"
	"github.com/myselfvenky/projectpilot/internal/platform"
	"github.com/myselfvenky/projectpilot/internal/probe"
	"github.com/myselfvenky/projectpilot/internal/project"
	"github.com/myselfvenky/projectpilot/internal/store"
)

// Result reports the outcome of an operation.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	err     error
}

// Err returns the underlying error, or nil on success.
func (r Result) Err() error { return r.err }

func ok() Result { return Result{Success: true} }

func failed(err error) Result {
	return Result{Error: perrors.UserMessage(err), err: err}
}

// CloneResult is the outcome of CloneRepository.
type CloneResult struct {
	Result
	ProjectPath string `json:"projectPath,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Output      string `json:"output,omitempty"`
}

// FolderResult is the outcome of SelectFolder.
type FolderResult struct {
	Result
	Path string `json:"path,omitempty"`
}

// App wires configuration, storage, detection, and launching together.
type App struct {
	Config   *config.Config
	Platform *platform.Platform
	Store    *store.Store
	Probe    *probe.Probe
	Detector *editor.Detector
	Launcher *launcher.Launcher
	Opener   *launcher.Opener
	// Picker asks the user for a folder. Nil means unsupported.
	Picker FolderPicker

	logger *logging.Logger
}

// Options override the components New would build.
type Options struct {
	Platform *platform.Platform
	Logger   *logging.Logger
	// Prober replaces the probe used for editor detection.
	Prober editor.Prober
}

// NewApp builds an App for cfg. A store that cannot open leaves the App in
// fail-closed mode: reads are empty and writes report the store as not
// connected.
func NewApp(ctx context.Context, cfg *config.Config, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	p := opts.Platform
	if p == nil {
		p = platform.Current()
	}

	pr := probe.New(p, cfg.ProbeTimeout())
	var prober editor.Prober = pr
	if opts.Prober != nil {
		prober = opts.Prober
	}

	backends := make([]store.Kind, 0, len(cfg.Storage.Backends))
	for _, b := range cfg.Storage.Backends {
		backends = append(backends, store.Kind(b))
	}
	st, err := store.Open(ctx, store.Options{
		Dir:           cfg.Storage.Dir,
		Preference:    backends,
		DefaultEditor: cfg.Editor.Default,
		Logger:        logger,
	})
	if err != nil {
		logger.Error(ctx, "project storage unavailable", zap.Error(err))
	}

	l := launcher.New(p, logger, cfg.LaunchWait())
	return &App{
		Config:   cfg,
		Platform: p,
		Store:    st,
		Probe:    pr,
		Detector: editor.NewDetector(p, prober, logger),
		Launcher: l,
		Opener:   launcher.NewOpener(l),
		Picker:   NewCommandPicker(p),
		logger:   logger.Named("app"),
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// guard runs fn, converting a panic into a failed Result.
func (a *App) guard(ctx context.Context, op string, fn func() error) (res Result) {
	ctx = logging.WithOperation(ctx, op)
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error(ctx, "operation panicked", zap.Any("panic", r), zap.Stack("stack"))
			res = failed(fmt.Errorf("internal error during %s: %v", op, r))
		}
	}()
	if err := fn(); err != nil {
		a.logger.Warn(ctx, "operation failed", zap.Error(err))
		return failed(err)
	}
	return ok()
}

// LoadProjects returns every project in display order. Failures yield an
// empty list.
func (a *App) LoadProjects(ctx context.Context) []project.Project {
	var projects []project.Project
	res := a.guard(ctx, "loadProjects", func() error {
		var err error
		projects, err = a.Store.All(ctx)
		return err
	})
	if !res.Success || projects == nil {
		return []project.Project{}
	}
	return projects
}

// GetProject returns the project with id.
func (a *App) GetProject(ctx context.Context, id string) (project.Project, error) {
	p, err := a.Store.Get(ctx, id)
	if err != nil {
		return project.Project{}, err
	}
	if p == nil {
		return project.Project{}, perrors.NewNotFoundError("project", id)
	}
	return *p, nil
}

// SaveProject inserts or updates p. A project without an id gets one.
func (a *App) SaveProject(ctx context.Context, p project.Project) Result {
	_, res := a.saveProject(ctx, p)
	return res
}

func (a *App) saveProject(ctx context.Context, p project.Project) (project.Project, Result) {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = project.NewID()
	}
	var saved project.Project
	res := a.guard(logging.WithProjectID(ctx, p.ID), "saveProject", func() error {
		var err error
		saved, err = a.Store.Save(ctx, p)
		return err
	})
	return saved, res
}

// DeleteProject removes id. Deleting an absent id succeeds.
func (a *App) DeleteProject(ctx context.Context, id string) Result {
	return a.guard(logging.WithProjectID(ctx, id), "deleteProject", func() error {
		_, err := a.Store.Delete(ctx, id)
		return err
	})
}

// ReorderProjects assigns each project its index in projects as sort order.
func (a *App) ReorderProjects(ctx context.Context, projects []project.Project) Result {
	return a.guard(ctx, "reorderProjects", func() error {
		return a.Store.Reorder(ctx, projects)
	})
}

// MoveProject moves id to position to in the current order and renumbers
// the whole list.
func (a *App) MoveProject(ctx context.Context, id string, to int) Result {
	return a.guard(logging.WithProjectID(ctx, id), "moveProject", func() error {
		projects, err := a.Store.All(ctx)
		if err != nil {
			return err
		}
		from := project.IndexOf(projects, id)
		if from < 0 {
			return perrors.NewNotFoundError("project", id)
		}
		return a.Store.ReorderIDs(ctx, project.Move(projects, from, to))
	})
}

// GetAvailableEditors returns the catalog with install status, in catalog
// order.
func (a *App) GetAvailableEditors(ctx context.Context) []editor.Status {
	var statuses []editor.Status
	a.guard(ctx, "getAvailableEditors", func() error {
		statuses = a.Detector.ListWithStatus(ctx, editor.Catalog())
		return nil
	})
	return statuses
}

// OpenProject opens path in editorID. Terminal editors fail with an error
// satisfying launcher.IsTerminalEditorError; run them with EditorCommand.
func (a *App) OpenProject(ctx context.Context, path, editorID string) Result {
	if editorID == "" {
		editorID = a.Config.Editor.Default
	}
	return a.guard(ctx, "openProject", func() error {
		return a.Opener.OpenProject(ctx, path, editorID)
	})
}

// OpenFolder shows path in the file manager.
func (a *App) OpenFolder(ctx context.Context, path string) Result {
	return a.guard(ctx, "openFolder", func() error {
		return a.Opener.OpenFolder(ctx, path)
	})
}

// OpenExternal opens url in the default browser.
func (a *App) OpenExternal(ctx context.Context, url string) Result {
	return a.guard(ctx, "openExternal", func() error {
		return a.Opener.OpenExternal(ctx, url)
	})
}

// SelectFolder asks the user to pick a directory. Cancelling is a failed
// result with no error text.
func (a *App) SelectFolder(ctx context.Context) FolderResult {
	var path string
	res := a.guard(ctx, "selectFolder", func() error {
		if a.Picker == nil {
			return perrors.ErrUnsupported
		}
		var err error
		path, err = a.Picker.PickFolder(ctx)
		return err
	})
	if res.Success && path == "" {
		res.Success = false
	}
	return FolderResult{Result: res, Path: path}
}

// CloneRepository clones req.URL into req.Destination/req.Name. progress
// may be nil.
func (a *App) CloneRepository(ctx context.Context, req clone.Request, progress func(string)) CloneResult {
	var out clone.Result
	res := a.guard(ctx, "cloneRepository", func() error {
		c := clone.New(a.Probe, a.logger, clone.Options{
			Tool:     a.Config.Clone.Tool,
			Timeout:  a.Config.CloneTimeout(),
			Progress: progress,
		})
		out = c.Clone(ctx, req)
		return out.Err
	})
	return CloneResult{Result: res, ProjectPath: out.ProjectPath, Branch: out.Branch, Output: out.Stdout}
}

// CloneProjectRequest describes a clone that becomes a project.
type CloneProjectRequest struct {
	URL         string
	Destination string
	// Name defaults to the repository name.
	Name          string
	Description   string
	Tags          string
	DefaultEditor string
	ProjectIcon   string
}

// CloneAndAdd clones a repository and saves it as a project marked with its
// source URL.
func (a *App) CloneAndAdd(ctx context.Context, req CloneProjectRequest, progress func(string)) (CloneResult, project.Project) {
	repo, parsed := clone.ParseRepository(req.URL)
	name := strings.TrimSpace(req.Name)
	if name == "" && parsed {
		name = repo.Name
	}
	if req.Destination == "" {
		req.Destination = a.Config.Clone.DefaultDestination
	}

	res := a.CloneRepository(ctx, clone.Request{URL: req.URL, Destination: req.Destination, Name: name}, progress)
	if !res.Success {
		return res, project.Project{}
	}

	p := project.New(name, res.ProjectPath)
	p.Description = req.Description
	if p.Description == "" && parsed {
		p.Description = repo.Description()
	}
	p.Tags = req.Tags
	p.DefaultEditor = req.DefaultEditor
	p.ProjectIcon = req.ProjectIcon
	p.Source = project.SourceGitHubClone
	p.OriginalURL = strings.TrimSpace(req.URL)

	saved, saveRes := a.saveProject(ctx, p)
	if !saveRes.Success {
		res.Result = saveRes
	}
	return res, saved
}

// Stats reports the project count and storage backend.
func (a *App) Stats(ctx context.Context) store.Stats {
	st, err := a.Store.Stats(ctx)
	if err != nil {
		a.logger.Warn(ctx, "stats failed", zap.Error(err))
	}
	return st
}

// Diagnostics summarizes the environment for troubleshooting.
type Diagnostics struct {
	OS                 string   `json:"os"`
	Arch               string   `json:"arch"`
	Backend            string   `json:"backend"`
	DataPath           string   `json:"dataPath"`
	ProjectCount       int      `json:"projectCount"`
	CloneTool          string   `json:"cloneTool"`
	CloneToolAvailable bool     `json:"cloneToolAvailable"`
	InstalledEditors   []string `json:"installedEditors"`
	FolderPicker       bool     `json:"folderPicker"`
	CheckedAt          string   `json:"checkedAt"`
}

// RunDiagnostics gathers Diagnostics.
func (a *App) RunDiagnostics(ctx context.Context) Diagnostics {
	st := a.Stats(ctx)
	d := Diagnostics{
		OS:                 a.Platform.OS,
		Arch:               runtime.GOARCH,
		Backend:            string(st.Backend),
		DataPath:           st.Path,
		ProjectCount:       st.Count,
		CloneTool:          a.Config.Clone.Tool,
		CloneToolAvailable: a.Probe.CommandOnPath(ctx, a.Config.Clone.Tool),
		InstalledEditors:   []string{},
		FolderPicker:       a.Picker != nil,
		CheckedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	for _, s := range editor.Installed(a.GetAvailableEditors(ctx)) {
		d.InstalledEditors = append(d.InstalledEditors, s.ID)
	}
	return d
}

// Export writes every project to w.
func (a *App) Export(ctx context.Context, w io.Writer, format project.Format) Result {
	return a.guard(ctx, "export", func() error {
		projects, err := a.Store.All(ctx)
		if err != nil {
			return err
		}
		return project.Encode(w, projects, format)
	})
}

// Import saves every project read from r, replacing records with matching
// ids. It stops at the first failure and reports how many were saved.
func (a *App) Import(ctx context.Context, r io.Reader, format project.Format) (int, Result) {
	saved := 0
	res := a.guard(ctx, "import", func() error {
		projects, err := project.Decode(r, format)
		if err != nil {
			return err
		}
		for _, p := range projects {
			if p.ID == "" {
				p.ID = project.NewID()
			}
			if _, err := a.Store.Save(ctx, p); err != nil {
				return fmt.Errorf("project %q: %w", p.Name, err)
			}
			saved++
		}
		return nil
	})
	return saved, res
}
