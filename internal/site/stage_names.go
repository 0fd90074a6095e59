package site

// StageName is a typed identifier for build pipeline stages.
type StageName string

const (
	StagePrepareOutput StageName = "prepare_output"
	StageDiscoverPosts StageName = "discover_posts"
	StageRenderPosts   StageName = "render_posts"
	StageRenderLists   StageName = "render_lists"
	StageRenderTags    StageName = "render_tags"
	StageRenderFeed    StageName = "render_feed"
	StageCopyAssets    StageName = "copy_assets"
	StageVerifyOutput  StageName = "verify_output"
)

// Pipeline accumulates ordered stages before execution.
type Pipeline struct {
	stages []namedStage
}

type namedStage struct {
	name StageName
	fn   Stage
}

// NewPipeline returns an empty pipeline builder.
func NewPipeline() *Pipeline { return &Pipeline{} }

// Add appends a stage and returns the pipeline for chaining.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.stages = append(p.stages, namedStage{name: name, fn: fn})
	return p
}

// Build returns the ordered stage list.
func (p *Pipeline) Build() []namedStage { return p.stages }
