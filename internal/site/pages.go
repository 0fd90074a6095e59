package site

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// OpenGraph holds the og:/article: metadata emitted into a page head.
type OpenGraph struct {
	Title         string
	Type          string
	URL           string
	Description   string
	Image         string
	PublishedTime string
}

// pageContext is the data passed to every page template. Fields not relevant
// to a page kind stay zero.
type pageContext struct {
	Site       config.SiteConfig
	PageTitle  string
	Production bool
	Analytics  template.HTML
	Commit     string
	OG         *OpenGraph

	Post  *RenderedPost
	Posts []RenderedPost
	Tag   string
	Years []archiveYear
	Tags  []tagEntry
}

type archiveYear struct {
	Year   int
	Months []archiveMonth
}

type archiveMonth struct {
	Name  string
	Posts []RenderedPost
}

type tagEntry struct {
	Name  string
	Href  string
	Count int
}

func (g *Generator) newPageContext(title string) pageContext {
	return pageContext{
		Site:       g.config.Site,
		PageTitle:  title,
		Production: g.production,
		Analytics:  template.HTML(g.config.AnalyticsHTML), // #nosec G203 - operator-owned snippet from config
		Commit:     g.git.ShortCommit,
	}
}

// renderPage executes tmpl into <stage>/<relDir>/index.html.
func (g *Generator) renderPage(bs *BuildState, tmpl *template.Template, relDir string, data pageContext) error {
	dir := filepath.Join(g.stageDir, filepath.FromSlash(relDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create page directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path) // #nosec G304 - path is inside the staging dir
	if err != nil {
		return fmt.Errorf("create page %s: %w", path, err)
	}
	if err := tmpl.Execute(f, data); err != nil {
		_ = f.Close()
		return fmt.Errorf("execute template for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close page %s: %w", path, err)
	}

	bs.Report.Pages++
	return nil
}

func stageRenderPosts(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	for i := range bs.Posts {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderPosts, ctx.Err())
		default:
		}

		post := &bs.Posts[i]
		data := g.newPageContext(post.Title)
		data.Post = post
		data.OG = g.openGraphFor(post)

		if err := g.renderPage(bs, g.templates.post, post.Slug, data); err != nil {
			return newFatalStageError(StageRenderPosts, err)
		}
		if err := g.copyPostAssets(bs, post); err != nil {
			return newFatalStageError(StageRenderPosts, fmt.Errorf("%w: %s: %w", ErrAssetCopy, post.Slug, err))
		}
		slog.Debug("Post page rendered", logfields.Slug(post.Slug))
	}
	return nil
}

// openGraphFor maps post fields onto OpenGraph metadata. The URL and image
// are absolute: preview scrapers do not resolve relative paths.
func (g *Generator) openGraphFor(post *RenderedPost) *OpenGraph {
	desc := post.Summary
	if desc == "" {
		desc = g.config.Site.Description
	}
	if desc == "" {
		desc = post.Title
	}
	og := &OpenGraph{
		Title:         post.Title,
		Type:          "article",
		URL:           g.absoluteURL(post.Href()),
		Description:   desc,
		PublishedTime: post.ISODate(),
	}
	if img := post.OGImage(); img != "" {
		og.Image = g.imageURL(post, img)
	}
	return og
}

// imageURL resolves a front matter image reference to an absolute URL.
// Already-absolute URLs pass through, root-relative paths resolve against the
// site root, and bare names resolve against the post page.
func (g *Generator) imageURL(post *RenderedPost, img string) string {
	if u, err := url.Parse(img); err == nil && u.Scheme != "" {
		return img
	}
	if strings.HasPrefix(img, "/") {
		return g.absoluteURL(img)
	}
	return g.absoluteURL(post.Href() + img)
}

func stageRenderLists(_ context.Context, bs *BuildState) error {
	g := bs.Generator

	home := g.newPageContext("Home")
	home.Posts = bs.Posts
	if limit := g.config.Content.RecentPostsLimit; len(home.Posts) > limit {
		home.Posts = home.Posts[:limit]
	}
	if err := g.renderPage(bs, g.templates.home, ".", home); err != nil {
		return newFatalStageError(StageRenderLists, err)
	}

	archive := g.newPageContext("Archive")
	archive.Years = groupByYearMonth(bs.Posts)
	if err := g.renderPage(bs, g.templates.archive, "archive", archive); err != nil {
		return newFatalStageError(StageRenderLists, err)
	}
	return nil
}

// groupByYearMonth buckets posts (already in archive order) by year and month
// for the archive page. Order within buckets is inherited from the input.
func groupByYearMonth(posts []RenderedPost) []archiveYear {
	var years []archiveYear
	for _, p := range posts {
		if len(years) == 0 || years[len(years)-1].Year != p.Year() {
			years = append(years, archiveYear{Year: p.Year()})
		}
		y := &years[len(years)-1]
		monthName := p.Month().String()
		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Name != monthName {
			y.Months = append(y.Months, archiveMonth{Name: monthName})
		}
		m := &y.Months[len(y.Months)-1]
		m.Posts = append(m.Posts, p)
	}
	return years
}
