package http

import "github.com/gin-gonic/gin"

// RegisterProjects attaches project routes to the given router group.
func (h *Handler) RegisterProjects(rg *gin.RouterGroup) {
	rg.GET("", h.listProjects)
	rg.POST("", h.createProject)
	rg.GET("/:id", h.getProject)
}

// RegisterPreferences attaches the caller's ranking routes.
func (h *Handler) RegisterPreferences(rg *gin.RouterGroup) {
	rg.GET("", h.listPreferences)
	rg.PUT("", h.submitPreferences)
}

// RegisterAssignments attaches assignment routes. limit guards recompute.
func (h *Handler) RegisterAssignments(rg *gin.RouterGroup, limit ...gin.HandlerFunc) {
	rg.GET("", h.currentAssignments)
	rg.POST("/recompute", append(limit, h.recompute)...)
	rg.GET("/runs", h.recentRuns)
	rg.GET("/runs/:id", h.getRun)
}
