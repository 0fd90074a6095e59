package blog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePost(t *testing.T, postsDir, slug, frontMatter, body string, assets ...string) {
	t.Helper()
	dir := filepath.Join(postsDir, slug)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\n" + frontMatter + "---\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, PostFileName), []byte(content), 0o644))
	for _, a := range assets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, a), []byte("asset"), 0o644))
	}
}

func TestDiscoverPostsSortedAndComplete(t *testing.T) {
	postsDir := t.TempDir()
	writePost(t, postsDir, "first-post",
		"title: First\npub_date: 2025-01-01T00:00:00Z\nsummary: one\ntags: [go]\n", "# One\n", "cover.png")
	writePost(t, postsDir, "second-post",
		"title: Second\npub_date: 2025-03-01T00:00:00Z\nsummary: two\n", "# Two\n")

	posts, err := NewDiscovery(postsDir).DiscoverPosts()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second-post", posts[0].Slug)
	assert.Equal(t, "first-post", posts[1].Slug)
	assert.Equal(t, []string{"cover.png"}, posts[1].Assets)
	assert.Equal(t, []string{"go"}, posts[1].Tags)
	assert.Contains(t, string(posts[1].Body), "# One")
}

func TestDiscoverSkipsUnderscoreAndHiddenEntries(t *testing.T) {
	postsDir := t.TempDir()
	writePost(t, postsDir, "real-post", "title: T\npub_date: 2025-01-01T00:00:00Z\n", "body\n",
		"photo.jpg", "_draft-notes.md", ".DS_Store")
	require.NoError(t, os.MkdirAll(filepath.Join(postsDir, "_drafts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(postsDir, ".git"), 0o755))

	posts, err := NewDiscovery(postsDir).DiscoverPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, []string{"photo.jpg"}, posts[0].Assets)
}

func TestDiscoverMissingTitleFailsBuild(t *testing.T) {
	postsDir := t.TempDir()
	writePost(t, postsDir, "no-title", "pub_date: 2025-01-01T00:00:00Z\n", "body\n")

	_, err := NewDiscovery(postsDir).DiscoverPosts()
	require.ErrorIs(t, err, ErrMalformedPost)
}

func TestDiscoverMissingPubDateFailsBuild(t *testing.T) {
	postsDir := t.TempDir()
	writePost(t, postsDir, "no-date", "title: T\n", "body\n")

	_, err := NewDiscovery(postsDir).DiscoverPosts()
	require.ErrorIs(t, err, ErrMalformedPost)
}

func TestDiscoverBadDateFailsBuild(t *testing.T) {
	postsDir := t.TempDir()
	writePost(t, postsDir, "bad-date", "title: T\npub_date: sometime\n", "body\n")

	_, err := NewDiscovery(postsDir).DiscoverPosts()
	require.ErrorIs(t, err, ErrUnparseableDate)
}

func TestDiscoverMissingFrontMatterFailsBuild(t *testing.T) {
	postsDir := t.TempDir()
	dir := filepath.Join(postsDir, "bare")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PostFileName), []byte("just markdown\n"), 0o644))

	_, err := NewDiscovery(postsDir).DiscoverPosts()
	require.ErrorIs(t, err, ErrMalformedPost)
}

func TestDiscoverInvalidSlugDirectory(t *testing.T) {
	postsDir := t.TempDir()
	writePost(t, postsDir, "Bad Slug Name", "title: T\npub_date: 2025-01-01T00:00:00Z\n", "body\n")

	_, err := NewDiscovery(postsDir).DiscoverPosts()
	require.ErrorIs(t, err, ErrMalformedPost)
}

func TestDiscoverMissingPostFile(t *testing.T) {
	postsDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(postsDir, "empty-dir"), 0o755))

	_, err := NewDiscovery(postsDir).DiscoverPosts()
	require.ErrorIs(t, err, ErrPostSourceAccess)
}
