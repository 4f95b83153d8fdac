package selection

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/repository"
)

const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 24 * time.Hour
)

// Source is the store as seen by the registry.
type Source interface {
	Finder
	Subscribe(fn repository.Listener) func()
}

type session struct {
	sel      *Selector
	lastSeen time.Time
}

// Registry keeps one Selector per session and clears selections whose
// project has been deleted. It holds at most maxSessions selectors; the
// least recently used one is dropped to make room, and sessions idle for
// longer than idleTTL are forgotten.
type Registry struct {
	store Source

	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions *lru.Cache[string, *session]

	unsubscribe func()
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithMaxSessions caps how many sessions keep a selector. n <= 0 keeps the
// default.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// WithIdleTTL sets how long an untouched session survives. d <= 0 disables
// expiry; the size cap still applies.
func WithIdleTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.idleTTL = d }
}

// WithRegistryClock replaces time.Now.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a registry bound to the store's change events.
func NewRegistry(store Source, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:       store,
		maxSessions: DefaultMaxSessions,
		idleTTL:     DefaultIdleTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.New[string, *session](r.maxSessions)
	if err != nil {
		panic(fmt.Sprintf("selection: session cache: %v", err))
	}
	r.sessions = cache
	r.unsubscribe = store.Subscribe(r.onEvent)
	return r
}

// For returns the selector for a session, creating it on first use.
func (r *Registry) For(sessionID string) *Selector {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if s, ok := r.touch(sessionID, now); ok {
		return s.sel
	}

	r.expireIdle(now)
	s := &session{sel: NewSelector(r.store), lastSeen: now}
	r.sessions.Add(sessionID, s)
	return s.sel
}

// Lookup returns the selector of a known session without creating one.
func (r *Registry) Lookup(sessionID string) (*Selector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.touch(sessionID, r.now())
	if !ok {
		return nil, false
	}
	return s.sel, true
}

// Forget drops a session's selector.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	r.forget(sessionID)
	r.mu.Unlock()
}

// Sessions returns how many sessions hold a selector.
func (r *Registry) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}

// Close detaches the registry from the store.
func (r *Registry) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

// touch must be called with r.mu held. An expired session is forgotten and
// reported as missing.
func (r *Registry) touch(sessionID string, now time.Time) (*session, bool) {
	s, ok := r.sessions.Get(sessionID)
	if !ok {
		return nil, false
	}
	if r.expired(s, now) {
		r.forget(sessionID)
		return nil, false
	}
	s.lastSeen = now
	return s, true
}

// expireIdle must be called with r.mu held. Every access refreshes both the
// LRU position and lastSeen, so idle sessions sit at the oldest end.
func (r *Registry) expireIdle(now time.Time) {
	for {
		id, s, ok := r.sessions.GetOldest()
		if !ok || !r.expired(s, now) {
			return
		}
		r.forget(id)
	}
}

func (r *Registry) expired(s *session, now time.Time) bool {
	return r.idleTTL > 0 && now.Sub(s.lastSeen) > r.idleTTL
}

// forget must be called with r.mu held.
func (r *Registry) forget(sessionID string) {
	r.sessions.Remove(sessionID)
}

func (r *Registry) onEvent(ev repository.Event) {
	switch ev.Kind {
	case repository.EventDeleted:
		r.clearAll(func(sel *Selector) { sel.clearIf(ev.ProjectID) })
	case repository.EventReplaced:
		r.clearAll(func(sel *Selector) {
			if id := sel.CurrentID(); id != "" {
				if _, ok := r.store.FindByID(id); !ok {
					sel.clearIf(id)
				}
			}
		})
	}
}

func (r *Registry) clearAll(fn func(*Selector)) {
	r.mu.Lock()
	sessions := r.sessions.Values()
	r.mu.Unlock()

	for _, s := range sessions {
		fn(s.sel)
	}
}
