package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/GoSim-25-26J-441/voc-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/voc-backend/internal/api/http/middleware"
	projectshttp "github.com/GoSim-25-26J-441/voc-backend/internal/projects/http"
	"github.com/GoSim-25-26J-441/voc-backend/internal/projects/hydration"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	Log            *zap.Logger
	Projects       *projectshttp.Handler
	Gate           *hydration.Gate
	Redis          *goredis.Client
	DB             *sql.DB
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Log == nil {
		dep.Log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Log))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	var healthOpts []httpapi.HealthOption
	if dep.Redis != nil {
		healthOpts = append(healthOpts, httpapi.WithRedis(dep.Redis))
	}
	if dep.DB != nil {
		healthOpts = append(healthOpts, httpapi.WithDB(dep.DB))
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Gate, healthOpts...)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	dep.Projects.Register(api, dep.Gate, middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", projectshttp.SessionHeader, middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{projectshttp.SessionHeader, middleware.RequestIDHeader}
	return cfg
}
