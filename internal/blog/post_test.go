package blog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, _, err := ParsePubDate(value)
	require.NoError(t, err)
	return parsed
}

func TestParsePubDate(t *testing.T) {
	full, hasOffset, err := ParsePubDate("2025-03-01T09:30:00+01:00")
	require.NoError(t, err)
	assert.True(t, hasOffset)
	assert.Equal(t, 2025, full.Year())

	_, hasOffset, err = ParsePubDate("2025-03-01")
	require.NoError(t, err)
	assert.False(t, hasOffset)

	_, _, err = ParsePubDate("last tuesday")
	require.ErrorIs(t, err, ErrUnparseableDate)

	_, _, err = ParsePubDate("")
	require.ErrorIs(t, err, ErrUnparseableDate)
}

func TestSortDescendingWithSlugTieBreak(t *testing.T) {
	posts := []Post{
		{Slug: "a", PubDate: mustDate(t, "2025-01-01T00:00:00Z")},
		{Slug: "b", PubDate: mustDate(t, "2025-03-01T00:00:00Z")},
		{Slug: "c", PubDate: mustDate(t, "2025-02-01T00:00:00Z")},
		{Slug: "zz-tied", PubDate: mustDate(t, "2025-02-01T00:00:00Z")},
	}
	Sort(posts)

	got := []string{posts[0].Slug, posts[1].Slug, posts[2].Slug, posts[3].Slug}
	assert.Equal(t, []string{"b", "c", "zz-tied", "a"}, got)
}

func TestByTagPreservesOrdering(t *testing.T) {
	posts := []Post{
		{Slug: "b", PubDate: mustDate(t, "2025-03-01T00:00:00Z"), Tags: []string{"x"}},
		{Slug: "c", PubDate: mustDate(t, "2025-02-01T00:00:00Z"), Tags: []string{"x", "y"}},
		{Slug: "a", PubDate: mustDate(t, "2025-01-01T00:00:00Z")},
	}
	Sort(posts)
	groups, tags := ByTag(posts)

	assert.Equal(t, []string{"x", "y"}, tags)
	require.Len(t, groups["x"], 2)
	assert.Equal(t, "b", groups["x"][0].Slug)
	assert.Equal(t, "c", groups["x"][1].Slug)
}

func TestOGImageFallback(t *testing.T) {
	p := Post{Assets: []string{"archive.zip", "cover.jpg", "other.png"}}
	assert.Equal(t, "cover.jpg", p.OGImage())

	p.Image = "explicit.png"
	assert.Equal(t, "explicit.png", p.OGImage())

	empty := Post{Assets: []string{"notes.txt"}}
	assert.Empty(t, empty.OGImage())
}

func TestPostDerivedFields(t *testing.T) {
	p := Post{Slug: "hello", PubDate: mustDate(t, "2025-03-01T09:30:00+01:00")}
	assert.Equal(t, "/hello/", p.Href())
	assert.Equal(t, "2025-03-01T09:30:00+01:00", p.ISODate())
	assert.Equal(t, "March 1, 2025", p.HumanDate())
	assert.Equal(t, 2025, p.Year())
	assert.Equal(t, time.March, p.Month())
}
