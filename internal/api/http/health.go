package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Hydration string    `json:"hydration"`
	Redis     string    `json:"redis,omitempty"`
	DB        string    `json:"db,omitempty"`
}

// ReadyChecker reports whether the project store has been hydrated.
type ReadyChecker interface {
	Ready() bool
}

type HealthHandler struct {
	serviceName string
	version     string
	hydration   ReadyChecker
	redis       *redis.Client
	db          *sql.DB
}

type HealthOption func(*HealthHandler)

func WithRedis(rdb *redis.Client) HealthOption {
	return func(h *HealthHandler) { h.redis = rdb }
}

func WithDB(db *sql.DB) HealthOption {
	return func(h *HealthHandler) { h.db = db }
}

func NewHealthHandler(serviceName, version string, hydration ReadyChecker, opts ...HealthOption) *HealthHandler {
	h := &HealthHandler{
		serviceName: serviceName,
		version:     version,
		hydration:   hydration,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	hydration := "ready"
	if h.hydration != nil && !h.hydration.Ready() {
		hydration = "loading"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = probe(c.Request.Context(), func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
	}

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = probe(c.Request.Context(), h.db.PingContext)
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Hydration: hydration,
		Redis:     redisStatus,
		DB:        dbStatus,
	})
}

func probe(parent context.Context, ping func(context.Context) error) string {
	ctx, cancel := context.WithTimeout(parent, 1*time.Second)
	defer cancel()

	if err := ping(ctx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
