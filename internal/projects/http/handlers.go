package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/projects/domain"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) createProject(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.projects.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p, "message": "You just successfully added a new project: " + p.Name})
}

func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) getProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return
	}
	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) listPreferences(c *gin.Context) {
	items, err := h.preferences.List(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "preferences": items})
}

type submitReq struct {
	Ranks map[int64]int `json:"ranks" binding:"required"`
}

func (h *Handler) submitPreferences(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	items, err := h.preferences.Submit(c.Request.Context(), auth.UserFirebaseUID(c), req.Ranks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "preferences": items})
}

func (h *Handler) recompute(c *gin.Context) {
	run, err := h.assignments.Recompute(c.Request.Context(), domain.TriggerAPI)
	if err != nil {
		writeError(c, err, gin.H{"run": run})
		return
	}

	current, err := h.assignments.Current(c.Request.Context())
	if err != nil {
		writeError(c, err, gin.H{"run": run})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"message":     "Project assignments updated.",
		"run":         run,
		"assignments": current,
	})
}

func (h *Handler) currentAssignments(c *gin.Context) {
	items, err := h.assignments.Current(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "assignments": items})
}

func (h *Handler) getRun(c *gin.Context) {
	run, err := h.assignments.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "run": run})
}

func (h *Handler) recentRuns(c *gin.Context) {
	limit := defaultRunLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid limit"})
			return
		}
		limit = min(n, maxRunLimit)
	}

	runs, err := h.assignments.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "runs": runs})
}
