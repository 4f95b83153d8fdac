package hydration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/repository"
)

const (
	defaultLoadAttempts = 3
	defaultLoadBackoff  = 500 * time.Millisecond
)

// Seeder supplies the projects used when nothing has been persisted yet.
type Seeder interface {
	SeedProjects() []domain.Project
}

// Loader fills a store.
type Loader interface {
	Replace(projects []domain.Project) error
}

// Source describes where hydrated projects came from.
type Source string

const (
	SourcePersisted Source = "persisted"
	SourceSeed      Source = "seed"
	SourceEmpty     Source = "empty"
)

// Result summarises a hydration run.
type Result struct {
	Source   Source
	Projects int
	// Skipped counts persisted rows dropped because they failed validation.
	Skipped int
	// LoadErr is set when the persister could not be read. The store then
	// does not reflect durable storage and must not be saved over it.
	LoadErr error
}

// SafeToSave reports whether saving the hydrated store would keep every
// durable record.
func (r Result) SafeToSave() bool {
	return r.LoadErr == nil && r.Skipped == 0
}

// Hydrator performs the one-time startup load of the store and then opens
// the gate.
type Hydrator struct {
	store     Loader
	persister repository.Persister
	seeder    Seeder
	gate      *Gate
	log       *zap.Logger

	attempts int
	backoff  time.Duration
	now      func() time.Time
}

// HydratorOption customises a Hydrator.
type HydratorOption func(*Hydrator)

// WithLoadRetry sets how often a failing persister is retried and the pause
// between attempts.
func WithLoadRetry(attempts int, backoff time.Duration) HydratorOption {
	return func(h *Hydrator) {
		if attempts > 0 {
			h.attempts = attempts
		}
		h.backoff = backoff
	}
}

// NewHydrator wires a hydrator. persister and seeder may be nil.
func NewHydrator(store Loader, persister repository.Persister, seeder Seeder, gate *Gate, log *zap.Logger, opts ...HydratorOption) *Hydrator {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hydrator{
		store:     store,
		persister: persister,
		seeder:    seeder,
		gate:      gate,
		log:       log,
		attempts:  defaultLoadAttempts,
		backoff:   defaultLoadBackoff,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run loads persisted projects, falling back to the seed when there are none
// or the persister keeps failing. The gate is opened on every return path so
// the UI never waits forever; a returned error means the store was left empty.
// Callers must check Result.SafeToSave before letting anything write back.
func (h *Hydrator) Run(ctx context.Context) (Result, error) {
	defer h.gate.MarkReady()

	var res Result
	if h.persister != nil {
		projects, err := h.load(ctx)
		switch {
		case err != nil:
			res.LoadErr = err
			h.log.Error("persisted projects unavailable, using seed with saving disabled",
				zap.String("persister", h.persister.Name()),
				zap.Error(err),
			)
		case len(projects) > 0:
			valid, skipped := h.validate(projects)
			res.Skipped = skipped
			if err := h.store.Replace(valid); err != nil {
				res.LoadErr = err
				h.log.Error("persisted projects rejected, using seed with saving disabled", zap.Error(err))
				break
			}
			res.Source, res.Projects = SourcePersisted, len(valid)
			h.log.Info("store hydrated",
				zap.String("source", string(SourcePersisted)),
				zap.Int("projects", len(valid)),
				zap.Int("skipped", skipped),
			)
			return res, nil
		}
	}

	if h.seeder == nil {
		res.Source = SourceEmpty
		h.log.Info("store hydrated", zap.String("source", string(SourceEmpty)))
		return res, nil
	}

	seed := h.seeder.SeedProjects()
	if err := h.store.Replace(seed); err != nil {
		res.Source = SourceEmpty
		return res, fmt.Errorf("seed projects: %w", err)
	}
	res.Source, res.Projects = SourceSeed, len(seed)
	h.log.Info("store hydrated", zap.String("source", string(SourceSeed)), zap.Int("projects", len(seed)))
	return res, nil
}

func (h *Hydrator) load(ctx context.Context) ([]domain.Project, error) {
	var err error
	for attempt := 1; attempt <= h.attempts; attempt++ {
		var projects []domain.Project
		if projects, err = h.persister.Load(ctx); err == nil {
			return projects, nil
		}
		h.log.Warn("loading persisted projects failed",
			zap.Int("attempt", attempt),
			zap.Int("attempts", h.attempts),
			zap.Error(err),
		)
		if attempt == h.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(h.backoff):
		}
	}
	return nil, err
}

// validate drops rows that would put an invalid project into the store.
func (h *Hydrator) validate(projects []domain.Project) ([]domain.Project, int) {
	loadedAt := h.now().UTC()
	out := make([]domain.Project, 0, len(projects))
	for _, p := range projects {
		if err := p.Normalize(loadedAt); err != nil {
			h.log.Warn("skipping invalid persisted project", zap.String("project_id", p.ID), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, len(projects) - len(out)
}
