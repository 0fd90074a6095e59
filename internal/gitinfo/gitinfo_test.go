package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutsideRepository(t *testing.T) {
	info := Resolve(t.TempDir())
	assert.Equal(t, "unknown", info.Commit)
	assert.Equal(t, "unknown", info.ShortCommit)
}

func TestResolveReturnsHeadHash(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("file.txt")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	info := Resolve(dir)
	assert.Equal(t, hash.String(), info.Commit)
	assert.Equal(t, hash.String()[:7], info.ShortCommit)

	// Parent detection: resolving from a subdirectory finds the same repo.
	sub := filepath.Join(dir, "posts")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	assert.Equal(t, info.Commit, Resolve(sub).Commit)
}
