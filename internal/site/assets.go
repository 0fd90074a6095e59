package site

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// jpegQuality matches the common "visually lossless enough" setting for web
// delivery.
const jpegQuality = 85

// stageCopyAssets copies the stylesheet and the public directory into the
// staged tree. Post assets are copied alongside their pages in the render
// stage; this stage owns everything site-wide.
func stageCopyAssets(ctx context.Context, bs *BuildState) error {
	g := bs.Generator

	if err := g.copyStylesheet(bs); err != nil {
		return newFatalStageError(StageCopyAssets, fmt.Errorf("%w: %w", ErrAssetCopy, err))
	}
	if err := g.copyPublicDir(ctx, bs); err != nil {
		return newFatalStageError(StageCopyAssets, fmt.Errorf("%w: %w", ErrAssetCopy, err))
	}
	return nil
}

func (g *Generator) copyStylesheet(bs *BuildState) error {
	src := g.config.Content.Stylesheet
	dst := filepath.Join(g.stageDir, "css", "styles.css")
	if err := copyFileRaw(src, dst); err != nil {
		return fmt.Errorf("stylesheet %s: %w", src, err)
	}
	bs.Report.Assets++
	return nil
}

// copyPublicDir mirrors public_dir under assets/. A missing public dir is
// fine, sites without shared assets skip it.
func (g *Generator) copyPublicDir(ctx context.Context, bs *BuildState) error {
	root := g.config.Content.PublicDir
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("public dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("public dir %s is not a directory", root)
	}

	return filepath.WalkDir(root, func(src string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(root, src)
		if err != nil {
			return err
		}
		dst := filepath.Join(g.stageDir, "assets", rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if err := copyOptimized(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
		bs.Report.Assets++
		return nil
	})
}

// copyPostAssets copies a post's sidecar files next to its rendered page.
func (g *Generator) copyPostAssets(bs *BuildState, post *RenderedPost) error {
	for _, name := range post.Assets {
		src := filepath.Join(post.SourceDir, name)
		dst := filepath.Join(g.stageDir, post.Slug, name)
		if err := copyOptimized(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
		bs.Report.Assets++
	}
	if len(post.Assets) > 0 {
		slog.Debug("Post assets copied", logfields.Slug(post.Slug), slog.Int("assets", len(post.Assets)))
	}
	return nil
}

// copyOptimized re-encodes JPEG and PNG images to shrink them; every other
// file is copied byte for byte. An undecodable image falls back to a raw
// copy so a corrupt file breaks its page, not the build.
func copyOptimized(src, dst string) error {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".jpg", ".jpeg":
		if err := reencodeImage(src, dst, func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
		}); err == nil {
			return nil
		}
		slog.Warn("Image re-encode failed, copying as-is", logfields.Path(src))
	case ".png":
		if err := reencodeImage(src, dst, func(w io.Writer, img image.Image) error {
			enc := png.Encoder{CompressionLevel: png.BestCompression}
			return enc.Encode(w, img)
		}); err == nil {
			return nil
		}
		slog.Warn("Image re-encode failed, copying as-is", logfields.Path(src))
	}
	return copyFileRaw(src, dst)
}

func reencodeImage(src, dst string, encode func(io.Writer, image.Image) error) error {
	in, err := os.Open(src) // #nosec G304 - asset path from discovered content
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst) // #nosec G304 - path is inside the staging dir
	if err != nil {
		return err
	}
	if err := encode(out, img); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func copyFileRaw(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 - asset path from discovered content
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst) // #nosec G304 - path is inside the staging dir
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
