package site

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/htmlcheck"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// postPageOpenGraph lists the metadata every post page must carry.
var postPageOpenGraph = []string{
	"og:title",
	"og:type",
	"og:url",
	"og:description",
	"article:published_time",
}

// stageVerifyOutput checks the staged tree before it is promoted: every HTML
// page must parse, every internal link must resolve inside the tree, post
// pages must carry their OpenGraph metadata, and the feed must be well-formed
// XML.
func stageVerifyOutput(ctx context.Context, bs *BuildState) error {
	g := bs.Generator

	postSlugs := make(map[string]struct{}, len(bs.Posts))
	for i := range bs.Posts {
		postSlugs[bs.Posts[i].Slug] = struct{}{}
	}

	checked := 0
	err := filepath.WalkDir(g.stageDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		page, err := htmlcheck.InspectFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := page.VerifyInternalLinks(g.stageDir, filepath.Dir(path)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		// OpenGraph is only mandated on post pages.
		rel, err := filepath.Rel(g.stageDir, filepath.Dir(path))
		if err != nil {
			return err
		}
		if _, isPost := postSlugs[filepath.ToSlash(rel)]; isPost {
			if err := page.RequireOpenGraph(postPageOpenGraph...); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		checked++
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageVerifyOutput, ctx.Err())
		}
		return newFatalStageError(StageVerifyOutput, fmt.Errorf("%w: %w", ErrVerification, err))
	}

	if err := verifyFeedXML(filepath.Join(g.stageDir, feedFileName)); err != nil {
		return newFatalStageError(StageVerifyOutput, fmt.Errorf("%w: %w", ErrVerification, err))
	}

	slog.Debug("Output verified", logfields.Pages(checked))
	return nil
}

// verifyFeedXML token-scans the feed to confirm it is well-formed XML.
func verifyFeedXML(path string) error {
	f, err := os.Open(path) // #nosec G304 - path is inside the staging dir
	if err != nil {
		return fmt.Errorf("feed %s: %w", path, err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("feed %s: malformed xml: %w", path, err)
		}
	}
}
