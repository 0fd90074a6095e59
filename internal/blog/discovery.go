package blog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// PostFileName is the conventional Markdown file inside each post directory.
const PostFileName = "post.md"

// Discovery handles post source discovery under a posts root.
type Discovery struct {
	postsDir string
}

// NewDiscovery creates a discovery instance rooted at postsDir.
func NewDiscovery(postsDir string) *Discovery {
	return &Discovery{postsDir: postsDir}
}

// DiscoverPosts enumerates posts/<slug>/post.md entries, parses and validates
// each one, and returns the collection sorted by pub_date descending (slug
// ascending on ties).
//
// Validation is strict: any malformed post fails discovery as a whole. A
// broken post silently missing from the output is worse than a build error.
func (d *Discovery) DiscoverPosts() ([]Post, error) {
	entries, err := os.ReadDir(d.postsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read posts dir %s: %w", ErrPostSourceAccess, d.postsDir, err)
	}

	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || strings.HasPrefix(entry.Name(), "_") {
			continue
		}

		postSlug := entry.Name()
		post, err := d.loadPost(postSlug)
		if err != nil {
			return nil, err
		}

		posts = append(posts, post)
		slog.Debug("Post discovered", logfields.Slug(postSlug), slog.Int("assets", len(post.Assets)))
	}

	Sort(posts)
	slog.Info("Post discovery completed", logfields.Posts(len(posts)))
	return posts, nil
}

func (d *Discovery) loadPost(postSlug string) (Post, error) {
	if !slug.Valid(postSlug) {
		return Post{}, fmt.Errorf("%w: directory name %q is not a valid slug", ErrMalformedPost, postSlug)
	}

	sourceDir := filepath.Join(d.postsDir, postSlug)
	sourcePath := filepath.Join(sourceDir, PostFileName)

	content, err := os.ReadFile(sourcePath) // #nosec G304 - path built from validated slug
	if err != nil {
		return Post{}, fmt.Errorf("%w: %s: %w", ErrPostSourceAccess, sourcePath, err)
	}

	rawMeta, body, err := frontmatter.Split(content)
	if err != nil {
		return Post{}, fmt.Errorf("%w: %s: %w", ErrMalformedPost, sourcePath, err)
	}

	var meta Meta
	if err := frontmatter.Decode(rawMeta, &meta); err != nil {
		return Post{}, fmt.Errorf("%w: %s: invalid front matter: %w", ErrMalformedPost, sourcePath, err)
	}

	if strings.TrimSpace(meta.Title) == "" {
		return Post{}, fmt.Errorf("%w: %s: missing required field title", ErrMalformedPost, sourcePath)
	}
	if strings.TrimSpace(meta.PubDate) == "" {
		return Post{}, fmt.Errorf("%w: %s: missing required field pub_date", ErrMalformedPost, sourcePath)
	}

	pubDate, hasOffset, err := ParsePubDate(meta.PubDate)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", sourcePath, err)
	}
	if !hasOffset {
		slog.Warn("Publication date has no timezone offset", logfields.Slug(postSlug), slog.String("pub_date", meta.PubDate))
	}

	assets, err := listAssets(sourceDir)
	if err != nil {
		return Post{}, fmt.Errorf("%w: %s: %w", ErrPostSourceAccess, sourceDir, err)
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		absDir = sourceDir
	}

	return Post{
		Slug:      postSlug,
		Title:     meta.Title,
		PubDate:   pubDate,
		Tags:      meta.Tags,
		Summary:   meta.Summary,
		Body:      body,
		Image:     meta.Image,
		Assets:    assets,
		SourceDir: absDir,
	}, nil
}

// listAssets returns the post's sibling files, excluding the Markdown source
// and anything prefixed with "_" (working files the author keeps next to the
// post but does not publish).
func listAssets(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}
	assets := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == PostFileName || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		assets = append(assets, name)
	}
	sort.Strings(assets)
	return assets, nil
}
