package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	httpapi "github.com/GoSim-25-26J-441/project-selection-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/api/http/routes"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/metrics"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Logger      *zap.Logger
	Services    *Services
	Identity    gin.HandlerFunc

	DB    httpapi.Pinger
	Redis httpapi.Pinger

	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer

	RecomputeRate  float64
	RecomputeBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	if dep.Logger == nil {
		dep.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	if dep.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(dep.Gatherer)))
	}

	var limiter *rate.Limiter
	if dep.RecomputeRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(dep.RecomputeRate), max(dep.RecomputeBurst, 1))
	}

	routes.RegisterV1(r, routes.V1Deps{
		Identity:         dep.Identity,
		Auth:             dep.Services.Auth,
		Projects:         dep.Services.Projects,
		Preferences:      dep.Services.Preferences,
		Assignments:      dep.Services.Assignments,
		RecomputeLimiter: limiter,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id", "X-User-Id", "X-User-Email", "X-User-Name"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
