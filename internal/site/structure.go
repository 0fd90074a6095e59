package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// createSiteStructure creates the fixed output directory skeleton inside the
// staging dir. Per-post and per-tag directories are created as pages render.
func (g *Generator) createSiteStructure() error {
	dirs := []string{
		"archive",
		"tags",
		"css",
		"assets",
	}
	for _, dir := range dirs {
		path := filepath.Join(g.stageDir, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}
	slog.Debug("Created site directory structure", "root", g.stageDir)
	return nil
}

// beginStaging creates an isolated staging directory for atomic build output.
// The final output tree is only touched after every stage has succeeded, so a
// failed build leaves the previously published tree intact.
func (g *Generator) beginStaging() error {
	stage := g.outputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear stale staging directory: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return err
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", "staging", stage, "final", g.outputDir)
	return nil
}

// finalizeStaging atomically promotes the staging directory to the final
// output location:
//  1. Move existing outputDir (if any) to outputDir.prev.
//  2. Rename staging -> outputDir.
//  3. Remove the backup best-effort, unless output.clean is false in which
//     case the previous tree stays at outputDir.prev.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(g.stageDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := g.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove previous backup: %w", err)
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	g.stageDir = ""
	if g.config.Output.Clean {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
		}
	} else if _, err := os.Stat(prev); err == nil {
		slog.Debug("Keeping previous output backup", logfields.Path(prev))
	}
	slog.Info("Promoted staging directory", logfields.Output(g.outputDir))
	return nil
}

// abortStaging removes any existing staging directory after a failed build to
// avoid orphaned temp dirs.
func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	dir := g.stageDir
	g.stageDir = "" // prevent double cleanup
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", "staging", dir, logfields.Error(err))
	}
}
