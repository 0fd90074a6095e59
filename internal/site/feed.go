package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorilla/feeds"
)

// feedFileName is the RSS feed path at the site root.
const feedFileName = "feed.xml"

// stageRenderFeed writes the RSS feed. The feed timestamp is the newest post
// date rather than the build time, so rebuilding unchanged sources yields
// identical output.
func stageRenderFeed(_ context.Context, bs *BuildState) error {
	g := bs.Generator

	feed := &feeds.Feed{
		Title:       g.config.Site.Title,
		Link:        &feeds.Link{Href: g.absoluteURL("/")},
		Description: g.config.Site.Description,
	}
	if g.config.Site.Author != "" {
		feed.Author = &feeds.Author{Name: g.config.Site.Author}
	}
	if len(bs.Posts) > 0 {
		feed.Created = bs.Posts[0].PubDate
	}

	for i := range bs.Posts {
		p := &bs.Posts[i]
		link := g.absoluteURL(p.Href())
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Description: p.Summary,
			Created:     p.PubDate,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return newFatalStageError(StageRenderFeed, fmt.Errorf("%w: %w", ErrFeed, err))
	}
	path := filepath.Join(g.stageDir, feedFileName)
	if err := os.WriteFile(path, []byte(rss), 0o644); err != nil {
		return newFatalStageError(StageRenderFeed, fmt.Errorf("%w: write %s: %w", ErrFeed, path, err))
	}
	return nil
}
