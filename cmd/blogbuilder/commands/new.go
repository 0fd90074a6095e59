package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// NewCmd scaffolds posts/<slug>/post.md with prefilled front matter.
type NewCmd struct {
	Slug string `arg:"" help:"Post slug (lowercase letters, digits and hyphens)"`
}

func (n *NewCmd) Run(_ *Global, root *CLI) error {
	postSlug := slug.Make(n.Slug)
	if postSlug == "" {
		return fmt.Errorf("cannot derive a slug from %q", n.Slug)
	}
	if postSlug != n.Slug {
		fmt.Printf("Normalized slug to %q\n", postSlug)
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dir := filepath.Join(cfg.Content.PostsDir, postSlug)
	path := filepath.Join(dir, blog.PostFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("post already exists: %s", path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create post directory: %w", err)
	}
	content := newPostContent(postSlug, time.Now())
	// #nosec G306 -- post scaffold is meant to be user-editable
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write post file: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	return nil
}

// newPostContent prefills front matter: the title is the slug with hyphens
// turned into spaces and words capitalized.
func newPostContent(postSlug string, now time.Time) string {
	words := strings.Split(postSlug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	title := strings.Join(words, " ")

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", title)
	fmt.Fprintf(&b, "pub_date: %s\n", now.Format(time.RFC3339))
	b.WriteString("tags: []\n")
	b.WriteString("summary: \"\"\n")
	b.WriteString("---\n\nWrite here.\n")
	return b.String()
}
