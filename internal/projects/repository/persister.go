package repository

import (
	"context"
	"sort"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
)

// Persister is the durable side of the store: loaded once at startup and
// written after mutations. The in-memory store never calls it directly.
type Persister interface {
	Name() string
	Load(ctx context.Context) ([]domain.Project, error)
	Save(ctx context.Context, projects []domain.Project) error
}

// sortByCreated gives loaded snapshots a stable order.
func sortByCreated(ps []domain.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID < ps[j].ID
		}
		return ps[i].CreatedAt.Before(ps[j].CreatedAt)
	})
}
