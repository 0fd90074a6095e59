package site

import (
	"context"
	"log/slog"
	"path"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// stageRenderTags writes one list page per tag plus the tag index. Tag pages
// live under their slug; the index links them with post counts.
func stageRenderTags(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	for _, tag := range bs.Tags {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderTags, ctx.Err())
		default:
		}

		data := g.newPageContext(tag)
		data.Tag = tag
		data.Posts = bs.ByTag[tag]
		if err := g.renderPage(bs, g.templates.tag, path.Join("tags", bs.TagSlugs[tag]), data); err != nil {
			return newFatalStageError(StageRenderTags, err)
		}
		slog.Debug("Tag page rendered", logfields.Tag(tag), logfields.Posts(len(bs.ByTag[tag])))
	}

	index := g.newPageContext("Tags")
	index.Tags = make([]tagEntry, 0, len(bs.Tags))
	for _, tag := range bs.Tags {
		index.Tags = append(index.Tags, tagEntry{
			Name:  tag,
			Href:  "/tags/" + bs.TagSlugs[tag] + "/",
			Count: len(bs.ByTag[tag]),
		})
	}
	if err := g.renderPage(bs, g.templates.tagIndex, "tags", index); err != nil {
		return newFatalStageError(StageRenderTags, err)
	}
	return nil
}
