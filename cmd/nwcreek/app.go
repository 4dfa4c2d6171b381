package main

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/config"
	"github.com/aristath/nwcreek/internal/database"
	"github.com/aristath/nwcreek/internal/modules/pages"
	"github.com/aristath/nwcreek/internal/modules/storage"
	"github.com/aristath/nwcreek/pkg/embedded"
)

// app holds what both front-ends share: local storage, the API client and the
// ticker directory.
type app struct {
	cfg       *config.Config
	db        *database.DB
	storage   *storage.Repository
	api       *northwest.Client
	directory []pages.Suggestion
}

func openApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	db, err := database.New(database.Config{Path: cfg.DatabasePath(), Name: "storage"})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate storage database: %w", err)
	}

	directory, err := pages.ParseDirectory(bytes.NewReader(embedded.TickerDirectory()))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to parse ticker directory: %w", err)
	}

	return &app{
		cfg:       cfg,
		db:        db,
		storage:   storage.NewRepository(db.Conn(), log),
		api:       northwest.NewClient(northwest.Config{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout}, log),
		directory: directory,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
