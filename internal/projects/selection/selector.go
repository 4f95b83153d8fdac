// Package selection tracks the "current" project of a UI session.
//
// A Selector stores only the selected id and resolves it against the store on
// every read, so it can never hand out a stale copy of a project.
package selection

import (
	"sync"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
)

// Finder is the read side of the project store.
type Finder interface {
	FindByID(id string) (domain.Project, bool)
}

// Selector holds the current project of one session.
type Selector struct {
	store Finder

	mu        sync.Mutex
	currentID string
}

// NewSelector creates a selector with nothing selected.
func NewSelector(store Finder) *Selector {
	return &Selector{store: store}
}

// Select resolves a route's project id. A known id becomes current; an
// unknown id clears the selection and reports false.
//
// The lookup runs under s.mu so a delete published in between cannot leave
// the removed id selected. The store publishes outside its own lock, which
// keeps the selector-then-store order free of deadlocks.
func (s *Selector) Select(id string) (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.store.FindByID(id)
	if !ok {
		s.currentID = ""
		return domain.Project{}, false
	}
	s.currentID = id
	return p, true
}

// Current returns the authoritative copy of the selected project.
func (s *Selector) Current() (domain.Project, bool) {
	s.mu.Lock()
	id := s.currentID
	s.mu.Unlock()

	if id == "" {
		return domain.Project{}, false
	}
	return s.store.FindByID(id)
}

// CurrentID returns the selected id, "" when nothing is selected.
func (s *Selector) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Clear drops the selection.
func (s *Selector) Clear() {
	s.mu.Lock()
	s.currentID = ""
	s.mu.Unlock()
}

// clearIf drops the selection when it points at id.
func (s *Selector) clearIf(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID != id {
		return false
	}
	s.currentID = ""
	return true
}
