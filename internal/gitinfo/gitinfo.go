// Package gitinfo resolves the repository HEAD commit so pages can carry a
// "built from <hash>" stamp in the footer.
package gitinfo

import (
	"log/slog"

	git "github.com/go-git/go-git/v5"
)

// Info holds the resolved commit identifiers. Both fields are "unknown" when
// the working directory is not inside a git repository.
type Info struct {
	Commit      string
	ShortCommit string
}

const unknown = "unknown"

// Resolve opens the repository containing dir (searching parents, like the
// git CLI) and returns HEAD's hash. Absence of a repository is not an error:
// builds must work from plain source exports too.
func Resolve(dir string) Info {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("No git repository found, commit stamp unavailable", "dir", dir)
		return Info{Commit: unknown, ShortCommit: unknown}
	}

	head, err := repo.Head()
	if err != nil {
		slog.Debug("Repository has no HEAD, commit stamp unavailable", "dir", dir)
		return Info{Commit: unknown, ShortCommit: unknown}
	}

	full := head.Hash().String()
	return Info{Commit: full, ShortCommit: full[:7]}
}
