package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth"
	authhttp "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/http"
	authservice "github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/service"
	projecthttp "github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/http"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/service"
)

type V1Deps struct {
	// Identity sets the caller's uid on the gin context (Firebase or header).
	Identity gin.HandlerFunc

	Auth        *authservice.AuthService
	Projects    *service.ProjectService
	Preferences *service.PreferenceService
	Assignments *service.AssignmentService

	// RecomputeLimiter guards POST /assignments/recompute; nil disables it.
	RecomputeLimiter *rate.Limiter
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(dep.Identity)

	authhttp.New(dep.Auth).Register(api.Group("/auth"))

	scoped := api.Group("")
	scoped.Use(auth.WithPerson(dep.Auth))

	h := projecthttp.New(dep.Projects, dep.Preferences, dep.Assignments)
	h.RegisterProjects(scoped.Group("/projects"))
	h.RegisterPreferences(scoped.Group("/preferences"))

	var limit []gin.HandlerFunc
	if dep.RecomputeLimiter != nil {
		limit = append(limit, middleware.RateLimit(dep.RecomputeLimiter))
	}
	h.RegisterAssignments(scoped.Group("/assignments"), limit...)
}
