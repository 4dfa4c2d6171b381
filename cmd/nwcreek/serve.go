package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/aristath/nwcreek/internal/config"
	"github.com/aristath/nwcreek/internal/scheduler"
	"github.com/aristath/nwcreek/internal/server"
	"github.com/aristath/nwcreek/pkg/logger"
)

type serveCmd struct {
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the browser front-end" }
func (*serveCmd) Usage() string {
	return `serve [-port <port>]

  Serves every page as HTML over HTTP. Browser sessions are kept in the
  local storage database and purged once idle for NWCREEK_SESSION_TTL.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.port, "port", 0, "Listen port (overrides NWCREEK_PORT)")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.port != 0 {
		cfg.Port = c.port
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitUsageError
		}
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	logger.SetGlobalLogger(log)
	log.Info().Str("version", version).Str("api", cfg.APIURL).Msg("Starting Northwest Creek")

	a, err := openApp(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize")
		return subcommands.ExitFailure
	}
	defer a.Close()

	sched := scheduler.New(log)
	if err := sched.AddJob("0 0 * * * *", scheduler.NewPurgeSessionsJob(a.storage, cfg.SessionTTL, log)); err != nil {
		log.Error().Err(err).Msg("Failed to register session purge")
		return subcommands.ExitFailure
	}
	if err := sched.AddJob("0 */15 * * * *", scheduler.NewWALCheckpointJob(a.db, log)); err != nil {
		log.Error().Err(err).Msg("Failed to register WAL checkpoint")
		return subcommands.ExitFailure
	}
	if err := sched.AddJob("0 30 3 * * *", scheduler.NewCheckStorageJob(a.db, log)); err != nil {
		log.Error().Err(err).Msg("Failed to register storage check")
		return subcommands.ExitFailure
	}
	// Sessions may have expired while the server was down
	if err := sched.RunNow(scheduler.NewPurgeSessionsJob(a.storage, cfg.SessionTTL, log)); err != nil {
		log.Warn().Err(err).Msg("Startup session purge failed")
	}
	sched.Start()
	defer sched.Stop()

	srv, err := server.New(server.Config{
		Log:       log,
		DB:        a.db,
		Storage:   a.storage,
		API:       a.api,
		Config:    cfg,
		Directory: a.directory,
		Version:   version,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create server")
		return subcommands.ExitFailure
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-errc:
		log.Error().Err(err).Msg("Server failed")
		return subcommands.ExitFailure
	}

	// Long enough for open live-price streams to notice the shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
	return subcommands.ExitSuccess
}
