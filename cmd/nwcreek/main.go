// Package main is the entry point for the Northwest Creek front-end. The same
// binary serves the browser front-end (serve) and the terminal one (tui).
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&serveCmd{}, "")
	commander.Register(&tuiCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
