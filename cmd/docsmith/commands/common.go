package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"mkdocs.yml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build the site from the configured docs directory"`
	Check  CheckCmd  `cmd:"" help:"Validate the configuration and exit nonzero on errors"`
	Lint   LintCmd   `cmd:"" help:"Run lint rules over the configuration and docs"`
	Fmt    FmtCmd    `cmd:"" help:"Rewrite the configuration in canonical form"`
	Verify VerifyCmd `cmd:"" help:"Verify links in a built site"`
	Serve  ServeCmd  `cmd:"" help:"Serve the site locally with live reload"`
	Daemon DaemonCmd `cmd:"" help:"Run continuous builds with config hot-reload"`
	Init   InitCmd   `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
