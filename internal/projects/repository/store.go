package repository

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/utils"
)

// copySuffix is appended to the name of a duplicated project.
const copySuffix = " (Copy)"

// maxIDAttempts bounds id generation retries on collision.
const maxIDAttempts = 5

// EventKind identifies the mutation that produced an Event.
type EventKind string

const (
	EventCreated    EventKind = "created"
	EventUpdated    EventKind = "updated"
	EventArchived   EventKind = "archived"
	EventDuplicated EventKind = "duplicated"
	EventDeleted    EventKind = "deleted"
	EventReplaced   EventKind = "replaced"
)

// Event is delivered to subscribers after a mutation has been applied.
type Event struct {
	Kind      EventKind
	ProjectID string
	// SourceID is set for EventDuplicated and names the original project.
	SourceID string
}

// Listener receives store events.
type Listener func(Event)

// MemoryStore is the in-process source of truth for projects.
// It resets with the process; durable copies live behind a Persister.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]domain.Project

	subMu     sync.RWMutex
	listeners map[int]Listener
	nextSubID int

	now   func() time.Time
	newID func() (string, error)
}

// Option customises a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator overrides the generator used for duplicated projects.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *MemoryStore) { s.newID = gen }
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		projects:  make(map[string]domain.Project),
		listeners: make(map[int]Listener),
		now:       time.Now,
		newID:     utils.NewProjectID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a fully formed project. A colliding id is rejected with
// domain.ErrDuplicateID and the existing record is left untouched.
func (s *MemoryStore) Create(p domain.Project) error {
	if p.ID == "" {
		return fmt.Errorf("%w: id required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if _, exists := s.projects[p.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
	}
	s.projects[p.ID] = p.Clone()
	s.mu.Unlock()

	s.publish(Event{Kind: EventCreated, ProjectID: p.ID})
	return nil
}

// FindAll returns copies of every project. Order is unspecified.
func (s *MemoryStore) FindAll() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	return out
}

// FindByID returns the project with the given id.
func (s *MemoryStore) FindByID(id string) (domain.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return domain.Project{}, false
	}
	return p.Clone(), true
}

// Len returns the number of stored projects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// Update merges the patch into an existing project and refreshes UpdatedAt.
func (s *MemoryStore) Update(id string, patch domain.Patch) (domain.Project, error) {
	if patch.IsEmpty() {
		return domain.Project{}, fmt.Errorf("%w: empty update", domain.ErrInvalidInput)
	}
	return s.Modify(id, func(p *domain.Project) (bool, error) {
		if err := p.Apply(patch); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Modify runs fn against the stored project under the write lock.
// fn reports whether it changed anything; UpdatedAt is refreshed and an
// EventUpdated emitted only when it did. Unknown ids return domain.ErrNotFound.
func (s *MemoryStore) Modify(id string, fn func(p *domain.Project) (bool, error)) (domain.Project, error) {
	s.mu.Lock()
	current, ok := s.projects[id]
	if !ok {
		s.mu.Unlock()
		return domain.Project{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	next := current.Clone()
	changed, err := fn(&next)
	if err != nil {
		s.mu.Unlock()
		return current.Clone(), err
	}
	if !changed {
		s.mu.Unlock()
		return current.Clone(), nil
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.touch(current)
	s.projects[id] = next
	s.mu.Unlock()

	s.publish(Event{Kind: EventUpdated, ProjectID: id})
	return next.Clone(), nil
}

// Archive moves a project to the archived status regardless of its current
// status. Archiving twice is a no-op. Unknown ids return false.
func (s *MemoryStore) Archive(id string) (domain.Project, bool) {
	s.mu.Lock()
	p, ok := s.projects[id]
	if !ok {
		s.mu.Unlock()
		return domain.Project{}, false
	}
	if p.Status == domain.StatusArchived {
		s.mu.Unlock()
		return p.Clone(), true
	}

	p.Status = domain.StatusArchived
	p.UpdatedAt = s.touch(p)
	s.projects[id] = p
	s.mu.Unlock()

	s.publish(Event{Kind: EventArchived, ProjectID: id})
	return p.Clone(), true
}

// Duplicate creates a fresh draft from an existing project. Unknown ids
// return false.
func (s *MemoryStore) Duplicate(id string) (domain.Project, bool, error) {
	s.mu.Lock()
	src, ok := s.projects[id]
	if !ok {
		s.mu.Unlock()
		return domain.Project{}, false, nil
	}

	newID, err := s.freeID()
	if err != nil {
		s.mu.Unlock()
		return domain.Project{}, true, err
	}

	now := s.now().UTC()
	dup := domain.Project{
		ID:          newID,
		Name:        src.Name + copySuffix,
		Description: src.Description,
		Progress:    0,
		Status:      domain.StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects[newID] = dup
	s.mu.Unlock()

	s.publish(Event{Kind: EventDuplicated, ProjectID: newID, SourceID: id})
	return dup.Clone(), true, nil
}

// Delete permanently removes a project. It reports whether anything was removed.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	if _, ok := s.projects[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.projects, id)
	s.mu.Unlock()

	s.publish(Event{Kind: EventDeleted, ProjectID: id})
	return true
}

// Replace swaps the whole collection, used once at hydration.
// Duplicate ids in the input are rejected and the store is left unchanged.
func (s *MemoryStore) Replace(projects []domain.Project) error {
	next := make(map[string]domain.Project, len(projects))
	for _, p := range projects {
		if p.ID == "" {
			return fmt.Errorf("%w: id required", domain.ErrInvalidInput)
		}
		if _, dup := next[p.ID]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateID, p.ID)
		}
		next[p.ID] = p.Clone()
	}

	s.mu.Lock()
	s.projects = next
	s.mu.Unlock()

	s.publish(Event{Kind: EventReplaced})
	return nil
}

// Subscribe registers a listener and returns a function that removes it.
func (s *MemoryStore) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.listeners, id)
		s.subMu.Unlock()
	}
}

// NewID returns an id that is not in use, for callers that build projects
// themselves before calling Create.
func (s *MemoryStore) NewID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freeID()
}

// freeID must be called with s.mu held.
func (s *MemoryStore) freeID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id, err := s.newID()
		if err != nil {
			return "", err
		}
		if _, taken := s.projects[id]; !taken {
			return id, nil
		}
	}
	return "", errors.New("failed to generate unique project id")
}

// touch returns the next UpdatedAt value, never earlier than CreatedAt.
func (s *MemoryStore) touch(p domain.Project) time.Time {
	now := s.now().UTC()
	if now.Before(p.CreatedAt) {
		return p.CreatedAt
	}
	return now
}

func (s *MemoryStore) publish(ev Event) {
	s.subMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.subMu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
