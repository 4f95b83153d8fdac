package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/voc-backend/config"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/repository"
	"github.com/GoSim-25-26J-441/voc-backend/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/voc-backend/internal/storage/redis"
)

// Persistence is the durable backend selected by PERSIST_BACKEND. All fields
// are nil for the "none" backend.
type Persistence struct {
	Persister repository.Persister
	Redis     *goredis.Client
	DB        *sql.DB
}

// Close releases whichever connection was opened.
func (p *Persistence) Close() error {
	switch {
	case p.Redis != nil:
		return p.Redis.Close()
	case p.DB != nil:
		return p.DB.Close()
	}
	return nil
}

func OpenPersistence(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Persistence, error) {
	switch cfg.Persistence.Backend {
	case config.BackendRedis:
		rdb, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("persistence enabled", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr))
		return &Persistence{Persister: repository.NewRedisPersister(rdb), Redis: rdb}, nil

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		persister := repository.NewPostgresPersister(db)
		if err := persister.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.Info("persistence enabled", zap.String("backend", "postgres"), zap.String("host", cfg.Database.Host))
		return &Persistence{Persister: persister, DB: db}, nil

	default:
		log.Info("persistence disabled, projects reset on restart")
		return &Persistence{}, nil
	}
}
