package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/cmd/blogbuilder/commands"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("blogbuilder"),
		kong.Description("Static blog generator: Markdown posts in, plain HTML site out."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("blogbuilder %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	if err := ctx.Run(&commands.Global{}, cli); err != nil {
		fmt.Fprintf(os.Stderr, "blogbuilder: %v\n", err)
		os.Exit(1)
	}
}
