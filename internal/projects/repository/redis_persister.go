package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/domain"
	"github.com/redis/go-redis/v9"
)

const (
	projectsHashKey = "voc:projects"          // Hash of project JSON keyed by id
	savedAtKey      = "voc:projects:saved_at" // RFC3339 time of the last snapshot
)

// RedisPersister stores the project collection as a Redis hash.
type RedisPersister struct {
	client *redis.Client
}

// NewRedisPersister creates a new RedisPersister
func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client}
}

func (r *RedisPersister) Name() string { return "redis" }

// Load reads every stored project. An absent hash yields an empty slice.
func (r *RedisPersister) Load(ctx context.Context) ([]domain.Project, error) {
	raw, err := r.client.HGetAll(ctx, projectsHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	out := make([]domain.Project, 0, len(raw))
	for id, data := range raw {
		var p domain.Project
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
		}
		out = append(out, p)
	}
	sortByCreated(out)
	return out, nil
}

// Save replaces the stored collection in a single MULTI/EXEC.
func (r *RedisPersister) Save(ctx context.Context, projects []domain.Project) error {
	fields := make(map[string]interface{}, len(projects))
	for _, p := range projects {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal project %s: %w", p.ID, err)
		}
		fields[p.ID] = data
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, projectsHashKey)
	if len(fields) > 0 {
		pipe.HSet(ctx, projectsHashKey, fields)
	}
	pipe.Set(ctx, savedAtKey, time.Now().UTC().Format(time.RFC3339), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	return nil
}

// LastSaved returns the time of the last successful Save, zero if none.
func (r *RedisPersister) LastSaved(ctx context.Context) (time.Time, error) {
	raw, err := r.client.Get(ctx, savedAtKey).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read snapshot time: %w", err)
	}
	return time.Parse(time.RFC3339, raw)
}
