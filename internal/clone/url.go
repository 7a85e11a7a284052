package clone

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	shorthandPattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)
	githubPattern    = regexp.MustCompile(`github\.com[/:]([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// NormalizeURL turns the accepted repository forms into a clone URL:
// "owner/repo" and "github.com/owner/repo" become HTTPS GitHub URLs and
// remote URLs gain a ".git" suffix. Local paths and file URLs are returned
// unchanged.
func NormalizeURL(raw string) string {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "file://"):
		return s
	case strings.Contains(s, "://"), strings.HasPrefix(s, "git@"):
	case strings.HasPrefix(s, "github.com/"):
		s = "https://" + s
	case shorthandPattern.MatchString(s):
		s = "https://github.com/" + s
	default:
		return s
	}
	if !strings.HasSuffix(s, ".git") {
		s += ".git"
	}
	return s
}

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository extracts owner and name from a GitHub URL in HTTPS, SSH,
// host-relative, or shorthand form.
func ParseRepository(raw string) (Repository, bool) {
	s := strings.TrimSpace(raw)
	if m := githubPattern.FindStringSubmatch(s); m != nil {
		return Repository{Owner: m[1], Name: m[2]}, true
	}
	if m := shorthandPattern.FindStringSubmatch(s); m != nil {
		return Repository{Owner: m[1], Name: strings.TrimSuffix(m[2], ".git")}, true
	}
	return Repository{}, false
}

// FullName returns "owner/name".
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// Description is the default description for a project cloned from r.
func (r Repository) Description() string {
	return fmt.Sprintf("Cloned from %s", r.FullName())
}
