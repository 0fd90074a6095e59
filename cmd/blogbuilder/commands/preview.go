package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/preview"
)

// PreviewCmd serves a local build and rebuilds on source changes.
type PreviewCmd struct {
	Port            int           `name:"port" default:"8080" help:"Local server port"`
	Output          string        `short:"o" name:"output" help:"Output directory (defaults to a temp dir)"`
	RebuildInterval time.Duration `name:"rebuild-interval" default:"0" help:"Also rebuild on this interval (0 disables)"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	outputDir := p.Output
	tempOut := ""
	if outputDir == "" {
		tmp, err := os.MkdirTemp("", "blogbuilder-preview-*")
		if err != nil {
			return fmt.Errorf("create temp output: %w", err)
		}
		outputDir = tmp
		tempOut = tmp
		slog.Info("Using temporary output directory for preview", logfields.Output(outputDir))
	}
	defer func() {
		if tempOut == "" {
			return
		}
		if err := os.RemoveAll(tempOut); err != nil {
			slog.Warn("Failed to remove temp output", logfields.Path(tempOut), logfields.Error(err))
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return preview.Run(ctx, cfg, outputDir, preview.Options{
		Port:            p.Port,
		RebuildInterval: p.RebuildInterval,
	})
}
