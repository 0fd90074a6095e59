// Package blog holds the post model and the discovery walk that turns a
// directory of Markdown sources into validated, ordered posts.
package blog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Post is one blog entry: posts/<slug>/post.md plus sibling asset files.
type Post struct {
	Slug    string
	Title   string
	PubDate time.Time
	Tags    []string
	Summary string

	// Body is the raw Markdown body; rendering to HTML happens in the build
	// pipeline so discovery stays I/O-only.
	Body []byte

	// Image is the explicit og:image from front matter, if any. Falls back to
	// the first image asset via OGImage.
	Image string

	// Assets are sibling file names copied next to the rendered page.
	// post.md itself and files prefixed with "_" are excluded.
	Assets []string

	// SourceDir is the absolute path of the post directory.
	SourceDir string
}

// Meta is the typed front matter schema.
type Meta struct {
	Title   string   `yaml:"title"`
	PubDate string   `yaml:"pub_date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Image   string   `yaml:"image"`
}

// Href returns the site-relative URL of the post page.
func (p Post) Href() string { return "/" + p.Slug + "/" }

// ISODate returns the machine-readable publication timestamp (OpenGraph,
// article:published_time).
func (p Post) ISODate() string { return p.PubDate.Format(time.RFC3339) }

// HumanDate returns the date shown in list entries and post headers.
func (p Post) HumanDate() string { return p.PubDate.Format("January 2, 2006") }

// Year and Month feed the archive grouping.
func (p Post) Year() int         { return p.PubDate.Year() }
func (p Post) Month() time.Month { return p.PubDate.Month() }

// OGImage returns the post's preview image path relative to the post page, or
// empty when the post has none.
func (p Post) OGImage() string {
	if p.Image != "" {
		return p.Image
	}
	for _, a := range p.Assets {
		if isImage(a) {
			return a
		}
	}
	return ""
}

// HasTag reports tag membership (order in Tags is display order only).
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func isImage(name string) bool {
	switch strings.ToLower(name[strings.LastIndex(name, ".")+1:]) {
	case "png", "jpg", "jpeg", "gif", "webp", "svg":
		return true
	}
	return false
}

// dateLayouts are accepted pub_date forms, most specific first. RFC 3339 with
// offset is canonical; the offset-less forms stay parseable for older posts
// but produce a warning at discovery time.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParsePubDate parses a front matter pub_date value. hasOffset reports whether
// the value carried an explicit timezone offset.
func ParsePubDate(value string) (t time.Time, hasOffset bool, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, fmt.Errorf("%w: empty value", ErrUnparseableDate)
	}
	for i, layout := range dateLayouts {
		if parsed, perr := time.Parse(layout, value); perr == nil {
			return parsed, i == 0, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%w: %q", ErrUnparseableDate, value)
}

// Sort orders posts by pub_date descending; ties break by slug ascending so
// the ordering is total and rebuilds are deterministic.
func Sort(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].PubDate.After(posts[j].PubDate)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

// ByTag groups posts per tag, preserving the input ordering within each group.
// The returned tag list is sorted alphabetically for stable index pages.
func ByTag(posts []Post) (map[string][]Post, []string) {
	groups := make(map[string][]Post)
	for _, p := range posts {
		for _, tag := range p.Tags {
			groups[tag] = append(groups[tag], p)
		}
	}
	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return groups, tags
}
