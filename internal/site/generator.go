// Package site turns discovered posts into the final static output tree.
// The build runs as an ordered stage pipeline writing into a staging
// directory that is atomically promoted on success.
package site

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/gitinfo"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// Generator handles static site generation.
type Generator struct {
	config     *config.Config
	outputDir  string // final output dir
	stageDir   string // ephemeral staging dir for current build
	production bool
	recorder   metrics.Recorder
	templates  *Templates
	renderer   *markdown.Renderer
	git        gitinfo.Info
}

// NewGenerator creates a new site generator. Templates are loaded lazily at
// build time so template errors surface as build errors.
func NewGenerator(cfg *config.Config, outputDir string, production bool) *Generator {
	return &Generator{
		config:     cfg,
		outputDir:  filepath.Clean(outputDir),
		production: production,
		recorder:   metrics.NoopRecorder{},
		renderer:   markdown.NewRenderer(),
		git:        gitinfo.Resolve("."),
	}
}

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// Config exposes the underlying configuration (read-only).
func (g *Generator) Config() *config.Config { return g.config }

// OutputDir returns the final output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// Build runs the full pipeline and returns a report. On error the staging
// directory is discarded and any previously published output tree is left
// untouched.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := newBuildReport(uuid.NewString())
	slog.Info("Starting site build",
		logfields.BuildID(report.BuildID),
		logfields.Output(g.outputDir),
		slog.Bool("production", g.production))

	ts, err := loadTemplates(g.config.Content.TemplatesDir, g.templateFuncs())
	if err != nil {
		report.recordError(StagePrepareOutput, newFatalStageError(StagePrepareOutput, err))
		report.finish()
		g.recorder.IncBuildOutcome(string(report.Outcome))
		return report, err
	}
	g.templates = ts

	if err := g.beginStaging(); err != nil {
		report.recordError(StagePrepareOutput, newFatalStageError(StagePrepareOutput, err))
		report.finish()
		g.recorder.IncBuildOutcome(string(report.Outcome))
		return report, err
	}

	bs := newBuildState(g, report)

	stages := NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageDiscoverPosts, stageDiscoverPosts).
		Add(StageRenderPosts, stageRenderPosts).
		Add(StageRenderLists, stageRenderLists).
		Add(StageRenderTags, stageRenderTags).
		Add(StageRenderFeed, stageRenderFeed).
		Add(StageCopyAssets, stageCopyAssets).
		Add(StageVerifyOutput, stageVerifyOutput).
		Build()

	if err := runStages(ctx, bs, stages); err != nil {
		g.abortStaging()
		report.finish()
		g.recorder.ObserveBuildDuration(report.Duration())
		g.recorder.IncBuildOutcome(string(report.Outcome))
		return report, err
	}

	report.finish()
	if err := g.finalizeStaging(); err != nil {
		report.Outcome = OutcomeFailed
		g.recorder.IncBuildOutcome(string(report.Outcome))
		return report, fmt.Errorf("finalize staging: %w", err)
	}

	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(string(report.Outcome))
	g.recorder.AddPagesRendered(report.Pages)
	slog.Info("Site build completed",
		logfields.BuildID(report.BuildID),
		logfields.Output(g.outputDir),
		logfields.Posts(report.Posts),
		logfields.Pages(report.Pages))
	return report, nil
}

// templateFuncs returns the function map shared by all page templates.
func (g *Generator) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"tagURL": func(tag string) string { return "/tags/" + slug.Make(tag) + "/" },
	}
}

// absoluteURL joins a site-relative path onto the configured base URL.
// Feed links and OpenGraph URLs must always be absolute.
func (g *Generator) absoluteURL(path string) string {
	base := strings.TrimRight(g.config.Site.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// reservedSlugs are output paths owned by list pages and assets; a post slug
// matching one would silently shadow them.
var reservedSlugs = map[string]struct{}{
	"archive": {},
	"tags":    {},
	"css":     {},
	"assets":  {},
}

// Stage implementations that prepare state; page writing lives in pages.go,
// taxonomies.go, feed.go, assets.go and verify.go.

func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	return bs.Generator.createSiteStructure()
}

func stageDiscoverPosts(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	discovery := blog.NewDiscovery(g.config.Content.PostsDir)
	posts, err := discovery.DiscoverPosts()
	if err != nil {
		return newFatalStageError(StageDiscoverPosts, err)
	}

	bs.Posts = make([]RenderedPost, 0, len(posts))
	for _, p := range posts {
		if _, reserved := reservedSlugs[p.Slug]; reserved {
			return newFatalStageError(StageDiscoverPosts,
				fmt.Errorf("%w: slug %q shadows a generated page", blog.ErrDuplicateSlug, p.Slug))
		}
		html, err := g.renderer.Render(p.Body)
		if err != nil {
			return newFatalStageError(StageDiscoverPosts,
				fmt.Errorf("%w: render %s: %w", blog.ErrMalformedPost, p.Slug, err))
		}
		bs.Posts = append(bs.Posts, RenderedPost{Post: p, BodyHTML: template.HTML(html)}) // #nosec G203 - post body is author-owned content
	}

	// Group by tag and derive tag slugs, rejecting collisions: two distinct
	// labels mapping to one slug would overwrite each other's list page.
	groups, tags := byTag(bs.Posts)
	slugOwner := make(map[string]string, len(tags))
	for _, tag := range tags {
		s := slug.Make(tag)
		if s == "" {
			return newFatalStageError(StageDiscoverPosts,
				fmt.Errorf("%w: tag %q produces an empty slug", blog.ErrMalformedPost, tag))
		}
		if owner, taken := slugOwner[s]; taken {
			return newFatalStageError(StageDiscoverPosts,
				fmt.Errorf("%w: tags %q and %q both map to %q", blog.ErrDuplicateSlug, owner, tag, s))
		}
		slugOwner[s] = tag
		bs.TagSlugs[tag] = s
	}
	bs.ByTag = groups
	bs.Tags = tags

	bs.Report.Posts = len(bs.Posts)
	return nil
}

// byTag mirrors blog.ByTag for rendered posts.
func byTag(posts []RenderedPost) (map[string][]RenderedPost, []string) {
	groups := make(map[string][]RenderedPost)
	for _, p := range posts {
		for _, tag := range p.Tags {
			groups[tag] = append(groups[tag], p)
		}
	}
	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	// Alphabetical for a stable tag index.
	sort.Strings(tags)
	return groups, tags
}
