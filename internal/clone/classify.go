package clone

import "strings"

// Failure reasons reported in Result.Reason.
const (
	ReasonMissingURL         = "repository URL is required"
	ReasonMissingDestination = "destination directory is required"
	ReasonMissingName        = "project name is required"
	ReasonInvalidName        = "project name must be a single directory name"
	ReasonDestinationMissing = "destination directory does not exist"
	ReasonTargetExists       = "target directory already exists"
	ReasonToolMissing        = "clone tool is not available"
	ReasonRepoNotFound       = "repository not found"
	ReasonPermissionDenied   = "permission denied"
	ReasonNetwork            = "network error"
	ReasonAlreadyExists      = "directory already exists"
	ReasonDirectoryMissing   = "clone completed but directory missing"
	ReasonTimedOut           = "clone timed out"
	ReasonCanceled           = "clone canceled"
	ReasonUnknown            = "clone failed"
)

// classifiers map stderr substrings to a reason. Earlier rules win.
var classifiers = []struct {
	needles []string
	reason  string
}{
	{[]string{"not found", "does not exist"}, ReasonRepoNotFound},
	{[]string{"permission denied", "access denied"}, ReasonPermissionDenied},
	{[]string{"unreachable", "could not resolve", "timed out", "timeout"}, ReasonNetwork},
	{[]string{"already exists"}, ReasonAlreadyExists},
}

// Classify turns the clone tool's stderr into a user-facing reason. Output
// matching no rule is returned trimmed.
func Classify(stderr string) string {
	lower := strings.ToLower(stderr)
	for _, c := range classifiers {
		for _, n := range c.needles {
			if strings.Contains(lower, n) {
				return c.reason
			}
		}
	}
	if trimmed := strings.TrimSpace(stderr); trimmed != "" {
		return trimmed
	}
	return ReasonUnknown
}
