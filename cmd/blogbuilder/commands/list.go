package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// ListCmd discovers posts and prints them without building.
type ListCmd struct{}

func (l *ListCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	posts, err := blog.NewDiscovery(cfg.Content.PostsDir).DiscoverPosts()
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Println("No posts found in", cfg.Content.PostsDir)
		return nil
	}

	for _, p := range posts {
		tags := "-"
		if len(p.Tags) > 0 {
			tags = strings.Join(p.Tags, ", ")
		}
		fmt.Printf("%s  %-30s  tags: %-20s  assets: %d\n",
			p.PubDate.Format("2006-01-02"), p.Slug, tags, len(p.Assets))
	}
	fmt.Printf("%d posts\n", len(posts))
	return nil
}
