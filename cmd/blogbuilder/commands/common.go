package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// stateDir holds build state that is not part of the published site: the
// history database and the last build report.
const stateDir = ".blogbuilder"

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site from posts, templates and assets"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	New     NewCmd     `cmd:"" help:"Scaffold a new post directory"`
	List    ListCmd    `cmd:"" help:"Discover and list posts without building"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on changes"`
	History HistoryCmd `cmd:"" help:"Show recent build history"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveOutputDir determines the output directory: CLI flag wins over the
// configured directory.
func ResolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" {
		return cliOutput
	}
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return "./output"
}
