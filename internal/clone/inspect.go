package clone

import (
	"github.com/go-git/go-git/v5"
)

// inspect reads the origin URL and checked-out branch of the repository at
// path. Anything unreadable is returned empty.
func inspect(path string) (remote, branch string) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", ""
	}

	if r, err := repo.Remote("origin"); err == nil {
		if urls := r.Config().URLs; len(urls) > 0 {
			remote = urls[0]
		}
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return remote, branch
}
