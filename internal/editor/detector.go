package editor

import (
	"context"
	"strings"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/myselfvenky/projectpilot/internal/logging"
	"github.com/myselfvenky/projectpilot/internal/platform"
)

// Prober is the subset of probe.Probe the detector needs.
type Prober interface {
	CommandOnPath(ctx context.Context, command string) bool
	Exists(path string) bool
	ExistsWithWildcard(pattern string) bool
}

// Status is a descriptor merged with its computed install state.
type Status struct {
	Descriptor
	IsInstalled bool `json:"isInstalled" yaml:"isInstalled"`
}

// maxDetectors bounds concurrent detection goroutines during a catalog sweep.
const maxDetectors = 8

// Detector decides whether editors are installed on one platform.
type Detector struct {
	platform *platform.Platform
	prober   Prober
	logger   *logging.Logger
}

// NewDetector creates a Detector. A nil logger discards output.
func NewDetector(p *platform.Platform, prober Prober, logger *logging.Logger) *Detector {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Detector{platform: p, prober: prober, logger: logger.Named("editor")}
}

// Detect reports whether d is installed, trying in order: the PATH command,
// conventional install directories, then the descriptor's own hints. The
// first success wins.
func (d *Detector) Detect(ctx context.Context, desc Descriptor) bool {
	if desc.Command != "" && d.prober.CommandOnPath(ctx, desc.Command) {
		return true
	}

	for _, candidate := range d.platform.InstallCandidates(desc.Name, desc.AppName, desc.Command) {
		if d.prober.Exists(candidate) {
			return true
		}
	}

	for _, hint := range desc.Hints[d.platform.OS] {
		hint = d.platform.Expand(hint)
		if strings.Contains(hint, "*") {
			if d.prober.ExistsWithWildcard(hint) {
				return true
			}
		} else if d.prober.Exists(hint) {
			return true
		}
	}
	return false
}

// ListWithStatus evaluates every descriptor concurrently and returns the
// results in the order given.
func (d *Detector) ListWithStatus(ctx context.Context, editors []Descriptor) []Status {
	mapper := iter.Mapper[Descriptor, Status]{MaxGoroutines: maxDetectors}
	statuses := mapper.Map(editors, func(desc *Descriptor) Status {
		return Status{Descriptor: *desc, IsInstalled: d.Detect(ctx, *desc)}
	})

	installed := make([]string, 0, len(statuses))
	for _, s := range statuses {
		if s.IsInstalled {
			installed = append(installed, s.ID)
		}
	}
	d.logger.Debug(ctx, "detected editors", zap.Strings("installed", installed))
	return statuses
}

// Installed filters statuses down to installed editors.
func Installed(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if s.IsInstalled {
			out = append(out, s)
		}
	}
	return out
}
