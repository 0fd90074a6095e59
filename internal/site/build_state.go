package site

import (
	"html/template"

	"git.home.luguber.info/inful/blogbuilder/internal/blog"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// RenderedPost pairs a discovered post with its rendered HTML body.
type RenderedPost struct {
	blog.Post
	BodyHTML template.HTML
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator *Generator
	Posts     []RenderedPost
	Tags      []string                  // sorted tag labels
	ByTag     map[string][]RenderedPost // tag label -> posts, archive order
	TagSlugs  map[string]string         // tag label -> url slug
	Report    *BuildReport
	Recorder  metrics.Recorder
}

func newBuildState(g *Generator, report *BuildReport) *BuildState {
	rec := g.recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &BuildState{
		Generator: g,
		ByTag:     make(map[string][]RenderedPost),
		TagSlugs:  make(map[string]string),
		Report:    report,
		Recorder:  rec,
	}
}
