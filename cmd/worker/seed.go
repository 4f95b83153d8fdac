package main

import (
	"context"
	"fmt"
	"io"

	"github.com/GoSim-25-26J-441/voc-backend/config"
	"github.com/GoSim-25-26J-441/voc-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/voc-backend/internal/fixtures"
	"github.com/GoSim-25-26J-441/voc-backend/internal/logger"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/repository"
)

// seedBackend replaces whatever the configured backend holds with the
// projects from a fixture file.
func seedBackend(ctx context.Context, path string, w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Options{Level: cfg.App.LogLevel, Development: !cfg.IsProduction()})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	prov, err := fixtures.LoadYAML(path)
	if err != nil {
		return err
	}

	p, err := bootstrap.OpenPersistence(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	return writeSeed(ctx, p.Persister, prov, w)
}

func writeSeed(ctx context.Context, persister repository.Persister, prov fixtures.Provider, w io.Writer) error {
	if persister == nil {
		return fmt.Errorf("PERSIST_BACKEND is %q, nothing to seed", config.BackendNone)
	}

	seeds := prov.SeedProjects()
	store := repository.NewMemoryStore()
	if err := store.Replace(seeds); err != nil {
		return err
	}
	if err := persister.Save(ctx, store.FindAll()); err != nil {
		return fmt.Errorf("save to %s: %w", persister.Name(), err)
	}

	_, err := fmt.Fprintf(w, "wrote %d projects to %s\n", len(seeds), persister.Name())
	return err
}
