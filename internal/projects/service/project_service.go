package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/internal/logger"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/views"
)

const (
	maxCreateAttempts  = 5
	defaultSaveTimeout = 3 * time.Second
)

// ProjectService handles project lifecycle business logic on top of the
// in-memory store and an optional persister.
type ProjectService struct {
	store     *repository.MemoryStore
	persister repository.Persister
	log       *zap.Logger
	now       func() time.Time

	saveMu      sync.Mutex
	saveTimeout time.Duration
	// blocked holds the reason saving is disabled; empty means allowed.
	blocked string
}

// ErrSavesBlocked is returned by Snapshot while writing to the persister
// could overwrite records the store never loaded.
var ErrSavesBlocked = errors.New("saving is disabled")

// NewProjectService creates a new project service. persister may be nil,
// in which case nothing outlives the process.
func NewProjectService(store *repository.MemoryStore, persister repository.Persister, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{
		store:       store,
		persister:   persister,
		log:         log,
		now:         time.Now,
		saveTimeout: defaultSaveTimeout,
	}
}

// MutationResult is returned by every write. Warning is set when the change
// was applied in memory but could not be persisted.
type MutationResult struct {
	Project domain.Project
	Warning string
}

// UpdateInput carries a partial update as received from clients.
type UpdateInput struct {
	Name        *string
	Description *string
	Progress    *int
	Status      *string
}

// Create creates a new draft project with a generated id.
func (s *ProjectService) Create(ctx context.Context, in domain.CreateInput) (MutationResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return MutationResult{}, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	for i := 0; i < maxCreateAttempts; i++ {
		id, err := s.store.NewID()
		if err != nil {
			return MutationResult{}, err
		}

		p := domain.Project{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			Progress:    0,
			Status:      domain.StatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err = s.store.Create(p)
		if err == nil {
			logger.FromContext(ctx, s.log).Info("project created", zap.String("project_id", id))
			return MutationResult{Project: p, Warning: s.persist(ctx, "create")}, nil
		}
		// lost a race for the id between NewID and Create → retry
		if errors.Is(err, domain.ErrDuplicateID) {
			continue
		}
		return MutationResult{}, err
	}

	return MutationResult{}, fmt.Errorf("failed to generate unique project id")
}

// List returns every project, most recently updated first.
func (s *ProjectService) List() []domain.Project {
	return views.SortByUpdated(s.store.FindAll())
}

// Get returns a single project.
func (s *ProjectService) Get(id string) (domain.Project, error) {
	p, ok := s.store.FindByID(id)
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

// Update applies a partial update.
func (s *ProjectService) Update(ctx context.Context, id string, in UpdateInput) (MutationResult, error) {
	patch := domain.Patch{
		Description: in.Description,
		Progress:    in.Progress,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.Status != nil {
		status, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return MutationResult{}, err
		}
		patch.Status = &status
	}

	p, err := s.store.Update(id, patch)
	if err != nil {
		return MutationResult{}, err
	}

	logger.FromContext(ctx, s.log).Info("project updated", zap.String("project_id", id))
	return MutationResult{Project: p, Warning: s.persist(ctx, "update")}, nil
}

// Archive archives a project. Archiving an archived project succeeds.
func (s *ProjectService) Archive(ctx context.Context, id string) (MutationResult, error) {
	before, ok := s.store.FindByID(id)
	if !ok {
		return MutationResult{}, domain.ErrNotFound
	}
	p, ok := s.store.Archive(id)
	if !ok {
		return MutationResult{}, domain.ErrNotFound
	}

	res := MutationResult{Project: p}
	if before.Status != domain.StatusArchived {
		logger.FromContext(ctx, s.log).Info("project archived",
			zap.String("project_id", id),
			zap.String("from_status", string(before.Status)),
		)
		res.Warning = s.persist(ctx, "archive")
	}
	return res, nil
}

// Duplicate copies a project into a new draft.
func (s *ProjectService) Duplicate(ctx context.Context, id string) (MutationResult, error) {
	p, found, err := s.store.Duplicate(id)
	if !found {
		return MutationResult{}, domain.ErrNotFound
	}
	if err != nil {
		return MutationResult{}, err
	}

	logger.FromContext(ctx, s.log).Info("project duplicated",
		zap.String("project_id", p.ID),
		zap.String("source_id", id),
	)
	return MutationResult{Project: p, Warning: s.persist(ctx, "duplicate")}, nil
}

// Delete permanently removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) (warning string, err error) {
	if !s.store.Delete(id) {
		return "", domain.ErrNotFound
	}
	logger.FromContext(ctx, s.log).Info("project deleted", zap.String("project_id", id))
	return s.persist(ctx, "delete"), nil
}

// BlockSaves stops Snapshot from writing until AllowSaves is called.
func (s *ProjectService) BlockSaves(reason string) {
	if reason == "" {
		reason = "blocked"
	}
	s.saveMu.Lock()
	s.blocked = reason
	s.saveMu.Unlock()
}

// AllowSaves lifts a BlockSaves.
func (s *ProjectService) AllowSaves() {
	s.saveMu.Lock()
	s.blocked = ""
	s.saveMu.Unlock()
}

// SavesBlocked returns the reason saving is disabled, "" when it is allowed.
func (s *ProjectService) SavesBlocked() string {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.blocked
}

// Snapshot writes the current collection to the persister. It is a no-op
// without one and fails with ErrSavesBlocked while saving is blocked.
func (s *ProjectService) Snapshot(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if s.blocked != "" {
		return fmt.Errorf("%w: %s", ErrSavesBlocked, s.blocked)
	}

	if err := s.persister.Save(ctx, s.store.FindAll()); err != nil {
		return fmt.Errorf("%s snapshot: %w", s.persister.Name(), err)
	}
	return nil
}

// persist saves after a mutation and turns failures into a warning; the
// in-memory change is kept either way.
func (s *ProjectService) persist(ctx context.Context, op string) string {
	if s.persister == nil {
		return ""
	}

	sctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	if err := s.Snapshot(sctx); err != nil {
		logger.FromContext(ctx, s.log).Warn("project change not persisted",
			zap.String("operation", op),
			zap.Error(err),
		)
		return "change applied but not saved: " + err.Error()
	}
	return ""
}
