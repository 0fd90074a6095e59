package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/history"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the generated site (overrides config)"`
	Prod   bool   `name:"prod" help:"Production build: include the analytics snippet from config"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	outputDir := ResolveOutputDir(b.Output, cfg)
	generator := site.NewGenerator(cfg, outputDir, b.Prod)

	report, buildErr := generator.Build(ctx)
	recordBuild(ctx, report)

	if buildErr != nil {
		return fmt.Errorf("build failed: %w", buildErr)
	}

	fmt.Printf("Built %d posts (%d pages, %d assets) into %s in %s\n",
		report.Posts, report.Pages, report.Assets, outputDir, report.Duration().Round(time.Millisecond))
	return nil
}

// recordBuild persists the report and appends a history record. Both are best
// effort: a full output tree with missing bookkeeping beats a failed build.
func recordBuild(ctx context.Context, report *site.BuildReport) {
	if err := report.Persist(stateDir); err != nil {
		slog.Warn("Failed to persist build report", logfields.Error(err))
	}

	store, err := history.Open(history.DefaultPath)
	if err != nil {
		slog.Warn("Failed to open history store", logfields.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	rec := history.Record{
		BuildID:  report.BuildID,
		Started:  report.Start,
		Duration: report.Duration(),
		Outcome:  string(report.Outcome),
		Posts:    report.Posts,
		Pages:    report.Pages,
		Error:    report.FirstError(),
	}
	if err := store.Append(ctx, rec); err != nil {
		slog.Warn("Failed to append build history", logfields.Error(err))
	}
}
