package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/config"
	cronjob "github.com/GoSim-25-26J-441/voc-backend/internal/cron"
	"github.com/GoSim-25-26J-441/voc-backend/internal/fixtures"
	projectshttp "github.com/GoSim-25-26J-441/voc-backend/internal/projects/http"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/hydration"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/selection"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/service"
)

// App holds the explicitly constructed process-wide state. There are no
// package-level singletons; everything is reachable from here.
type App struct {
	Store     *repository.MemoryStore
	Service   *service.ProjectService
	Sessions  *selection.Registry
	Gate      *hydration.Gate
	Hydrator  *hydration.Hydrator
	Fixtures  fixtures.Provider
	Scheduler *cronjob.Scheduler
	Handler   *projectshttp.Handler
}

// NewApp wires the project components over an already opened persistence
// backend. p may be empty.
func NewApp(cfg *config.Config, p *Persistence, log *zap.Logger, opts ...hydration.HydratorOption) (*App, error) {
	data, err := loadFixtures(cfg.Fixtures.SeedPath)
	if err != nil {
		return nil, err
	}

	store := repository.NewMemoryStore()
	svc := service.NewProjectService(store, p.Persister, log.Named("projects"))
	svc.BlockSaves("projects are still loading")
	sessions := selection.NewRegistry(store,
		selection.WithMaxSessions(cfg.Sessions.MaxSessions),
		selection.WithIdleTTL(cfg.Sessions.IdleTTL),
	)
	gate := hydration.NewGate()

	return &App{
		Store:     store,
		Service:   svc,
		Sessions:  sessions,
		Gate:      gate,
		Hydrator:  hydration.NewHydrator(store, p.Persister, data, gate, log.Named("hydration"), opts...),
		Fixtures:  data,
		Scheduler: cronjob.NewScheduler(svc, log.Named("cron")),
		Handler:   projectshttp.New(svc, sessions, data, log.Named("http")),
	}, nil
}

// Hydrate runs the one-time load. The gate is open when it returns. Saving
// is enabled only when the store holds everything durable storage does.
func (a *App) Hydrate(ctx context.Context) (hydration.Result, error) {
	res, err := a.Hydrator.Run(ctx)

	switch {
	case res.LoadErr != nil:
		a.Service.BlockSaves(fmt.Sprintf("persisted projects could not be loaded: %v", res.LoadErr))
	case res.Skipped > 0:
		a.Service.BlockSaves(fmt.Sprintf("%d persisted projects failed validation", res.Skipped))
	default:
		a.Service.AllowSaves()
	}
	return res, err
}

// Close stops background work and detaches session tracking.
func (a *App) Close(ctx context.Context) {
	a.Scheduler.Stop(ctx)
	a.Sessions.Close()
}

func loadFixtures(path string) (fixtures.Provider, error) {
	if path == "" {
		return fixtures.Empty{}, nil
	}
	prov, err := fixtures.LoadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("load fixtures %s: %w", path, err)
	}
	return prov, nil
}
