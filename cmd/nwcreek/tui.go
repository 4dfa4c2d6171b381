package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"github.com/aristath/nwcreek/internal/config"
	"github.com/aristath/nwcreek/internal/tui"
	"github.com/aristath/nwcreek/pkg/embedded"
	"github.com/aristath/nwcreek/pkg/logger"
)

type tuiCmd struct {
	profile  string
	maxWidth int
}

func (*tuiCmd) Name() string     { return "tui" }
func (*tuiCmd) Synopsis() string { return "run the terminal front-end" }
func (*tuiCmd) Usage() string {
	return `tui [-profile <name>] [-width <columns>]

  Opens the terminal front-end. The token and theme are kept per profile in
  the local storage database. Logs go to nwcreek.log in the data directory.
`
}

func (c *tuiCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.profile, "profile", "default", "Local storage profile")
	f.IntVar(&c.maxWidth, "width", 120, "Maximum layout width in columns (0 for none)")
}

func (c *tuiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.profile == "" {
		fmt.Fprintln(os.Stderr, "Error: -profile must not be empty")
		return subcommands.ExitUsageError
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	logFile, err := logger.OpenFile(cfg.LogFilePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logFile.Close()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Output: logFile})
	logger.SetGlobalLogger(log)
	log.Info().Str("version", version).Str("profile", c.profile).Msg("Starting terminal front-end")

	a, err := openApp(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize")
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	err = tui.Run(ctx, tui.Config{
		API:        a.api,
		Store:      a.storage.Scope("tui:" + c.profile),
		Directory:  a.directory,
		Pricing:    embedded.PricingMarkdown(),
		LivePrices: cfg.LivePrices,
		Log:        log,
		MaxWidth:   c.maxWidth,
	})
	if err != nil {
		log.Error().Err(err).Msg("Terminal front-end failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
