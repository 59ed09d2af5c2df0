package main

import (
	"github.com/alecthomas/kong"

	"github.com/docsmith/docsmith/cmd/docsmith/commands"
	"github.com/docsmith/docsmith/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("docsmith"),
		kong.Description("Build, lint, and serve MkDocs-style documentation sites."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	err := ctx.Run(&commands.Global{}, cli)
	ctx.FatalIfErrorf(err)
}
