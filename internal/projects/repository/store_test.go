package repository

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func sequentialIDs(prefix string) func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

func newTestStore(t *testing.T) (*MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewMemoryStore(WithClock(clock.Now), WithIDGenerator(sequentialIDs("dup"))), clock
}

func project(id, name string, progress int, status domain.Status, at time.Time) domain.Project {
	return domain.Project{
		ID:        id,
		Name:      name,
		Progress:  progress,
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestMemoryStore_Create(t *testing.T) {
	store, clock := newTestStore(t)

	t.Run("distinct ids are all kept", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			p := project(fmt.Sprintf("p-%d", i), "Project", 0, domain.StatusDraft, clock.Now())
			require.NoError(t, store.Create(p))
		}
		assert.Len(t, store.FindAll(), 10)
	})

	t.Run("duplicate id is rejected and the original survives", func(t *testing.T) {
		err := store.Create(project("p-0", "Impostor", 50, domain.StatusActive, clock.Now()))
		require.ErrorIs(t, err, domain.ErrDuplicateID)

		got, ok := store.FindByID("p-0")
		require.True(t, ok)
		assert.Equal(t, "Project", got.Name)
		assert.Equal(t, 0, got.Progress)
		assert.Len(t, store.FindAll(), 10)
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		err := store.Create(project("", "No id", 0, domain.StatusDraft, clock.Now()))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMemoryStore_FindByID(t *testing.T) {
	store, clock := newTestStore(t)
	require.NoError(t, store.Create(project("a", "A", 0, domain.StatusDraft, clock.Now())))

	_, ok := store.FindByID("missing")
	assert.False(t, ok)

	got, ok := store.FindByID("a")
	require.True(t, ok)
	got.Name = "mutated copy"

	again, _ := store.FindByID("a")
	assert.Equal(t, "A", again.Name, "returned projects must be copies")
}

func TestMemoryStore_Update(t *testing.T) {
	store, clock := newTestStore(t)
	created := clock.Now()
	require.NoError(t, store.Create(project("a", "A", 0, domain.StatusDraft, created)))

	t.Run("merges fields and refreshes updated_at", func(t *testing.T) {
		clock.Advance(time.Minute)
		name := "Renamed"
		progress := 40
		got, err := store.Update("a", domain.Patch{Name: &name, Progress: &progress})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, 40, got.Progress)
		assert.Equal(t, created, got.CreatedAt)
		assert.Equal(t, created.Add(time.Minute), got.UpdatedAt)
	})

	t.Run("unknown id is an observable not found", func(t *testing.T) {
		name := "x"
		_, err := store.Update("missing", domain.Patch{Name: &name})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		_, err := store.Update("a", domain.Patch{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("whitespace-only name is rejected", func(t *testing.T) {
		blank := " \t "
		_, err := store.Update("a", domain.Patch{Name: &blank})
		require.ErrorIs(t, err, domain.ErrInvalidInput)

		got, _ := store.FindByID("a")
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("progress regression leaves the record untouched", func(t *testing.T) {
		progress := 10
		_, err := store.Update("a", domain.Patch{Progress: &progress})
		require.ErrorIs(t, err, domain.ErrInvalidProgress)

		got, _ := store.FindByID("a")
		assert.Equal(t, 40, got.Progress)
	})

	t.Run("skipping a status is rejected", func(t *testing.T) {
		status := domain.StatusCompleted
		_, err := store.Update("a", domain.Patch{Status: &status})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("updated_at never precedes created_at", func(t *testing.T) {
		clock.Advance(-24 * time.Hour)
		desc := "clock went backwards"
		got, err := store.Update("a", domain.Patch{Description: &desc})
		require.NoError(t, err)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	})
}

func TestMemoryStore_Archive(t *testing.T) {
	store, clock := newTestStore(t)
	for _, s := range []domain.Status{domain.StatusDraft, domain.StatusActive, domain.StatusCompleted} {
		require.NoError(t, store.Create(project(string(s), string(s), 0, s, clock.Now())))
	}

	t.Run("archives from every status", func(t *testing.T) {
		for _, id := range []string{"draft", "active", "completed"} {
			got, ok := store.Archive(id)
			require.True(t, ok)
			assert.Equal(t, domain.StatusArchived, got.Status)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		clock.Advance(time.Hour)
		first, ok := store.Archive("draft")
		require.True(t, ok)
		second, ok := store.Archive("draft")
		require.True(t, ok)
		assert.Equal(t, first, second)
		assert.Equal(t, domain.StatusArchived, second.Status)
	})

	t.Run("unknown id is a quiet no-op", func(t *testing.T) {
		_, ok := store.Archive("missing")
		assert.False(t, ok)
		assert.Len(t, store.FindAll(), 3)
	})
}

func TestMemoryStore_Duplicate(t *testing.T) {
	store, clock := newTestStore(t)
	src := project("a", "Churn survey", 80, domain.StatusActive, clock.Now())
	src.Description = "Q3 churn interviews"
	src.CompletedSteps = []domain.Step{domain.StepObjectives, domain.StepQuestions}
	require.NoError(t, store.Create(src))

	clock.Advance(time.Hour)
	dup, found, err := store.Duplicate("a")
	require.NoError(t, err)
	require.True(t, found)

	assert.NotEqual(t, "a", dup.ID)
	assert.Equal(t, domain.StatusDraft, dup.Status)
	assert.Equal(t, 0, dup.Progress)
	assert.Empty(t, dup.CompletedSteps)
	assert.Equal(t, "Churn survey (Copy)", dup.Name)
	assert.True(t, strings.Contains(dup.Name, src.Name))
	assert.Equal(t, src.Description, dup.Description)
	assert.Equal(t, clock.Now(), dup.CreatedAt)
	assert.Equal(t, dup.CreatedAt, dup.UpdatedAt)

	orig, _ := store.FindByID("a")
	assert.Equal(t, 80, orig.Progress, "source must be unchanged")
	assert.Len(t, store.FindAll(), 2)

	t.Run("unknown id is a quiet no-op", func(t *testing.T) {
		_, found, err := store.Duplicate("missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Len(t, store.FindAll(), 2)
	})

	t.Run("skips generated ids already in use", func(t *testing.T) {
		s := NewMemoryStore(WithIDGenerator(sequentialIDs("x")))
		require.NoError(t, s.Create(project("x-1", "taken", 0, domain.StatusDraft, time.Now())))
		dup, _, err := s.Duplicate("x-1")
		require.NoError(t, err)
		assert.Equal(t, "x-2", dup.ID)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		s := NewMemoryStore(WithIDGenerator(func() (string, error) { return "same", nil }))
		require.NoError(t, s.Create(project("same", "taken", 0, domain.StatusDraft, time.Now())))
		_, found, err := s.Duplicate("same")
		assert.True(t, found)
		assert.Error(t, err)
	})
}

func TestMemoryStore_Delete(t *testing.T) {
	store, clock := newTestStore(t)
	require.NoError(t, store.Create(project("a", "A", 0, domain.StatusDraft, clock.Now())))

	var events []Event
	unsubscribe := store.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsubscribe()

	assert.True(t, store.Delete("a"))
	assert.False(t, store.Delete("a"))

	_, ok := store.FindByID("a")
	assert.False(t, ok)
	require.Len(t, events, 1)
	assert.Equal(t, Event{Kind: EventDeleted, ProjectID: "a"}, events[0])
}

func TestMemoryStore_Replace(t *testing.T) {
	store, clock := newTestStore(t)
	require.NoError(t, store.Create(project("old", "Old", 0, domain.StatusDraft, clock.Now())))

	err := store.Replace([]domain.Project{
		project("a", "A", 0, domain.StatusDraft, clock.Now()),
		project("a", "A again", 0, domain.StatusDraft, clock.Now()),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateID)
	_, ok := store.FindByID("old")
	assert.True(t, ok, "failed replace must not change the store")

	require.NoError(t, store.Replace([]domain.Project{
		project("a", "A", 0, domain.StatusDraft, clock.Now()),
		project("b", "B", 100, domain.StatusCompleted, clock.Now()),
	}))
	assert.Equal(t, 2, store.Len())
	_, ok = store.FindByID("old")
	assert.False(t, ok)
}

func TestMemoryStore_Subscribe(t *testing.T) {
	store, clock := newTestStore(t)

	var kinds []EventKind
	unsubscribe := store.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, store.Create(project("a", "A", 0, domain.StatusDraft, clock.Now())))
	name := "B"
	_, err := store.Update("a", domain.Patch{Name: &name})
	require.NoError(t, err)
	store.Archive("a")
	store.Archive("a")
	_, _, err = store.Duplicate("a")
	require.NoError(t, err)

	unsubscribe()
	store.Delete("a")

	assert.Equal(t, []EventKind{EventCreated, EventUpdated, EventArchived, EventDuplicated}, kinds)
}

func TestMemoryStore_ArchiveScenario(t *testing.T) {
	store, clock := newTestStore(t)
	require.NoError(t, store.Create(project("A", "A", 0, domain.StatusDraft, clock.Now())))
	require.NoError(t, store.Create(project("B", "B", 100, domain.StatusCompleted, clock.Now())))

	_, ok := store.Archive("B")
	require.True(t, ok)

	var nonArchived []domain.Project
	for _, p := range store.FindAll() {
		if p.Status != domain.StatusArchived {
			nonArchived = append(nonArchived, p)
		}
	}
	require.Len(t, nonArchived, 1)
	assert.Equal(t, "A", nonArchived[0].ID)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p-%d", i)
			_ = store.Create(project(id, id, 0, domain.StatusDraft, time.Now()))
			_ = store.FindAll()
			store.Archive(id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, store.Len())
}
