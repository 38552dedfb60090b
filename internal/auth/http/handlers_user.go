package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/domain"
)

// GetProfile returns the caller's person record
func (h *Handler) GetProfile(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	person, err := h.authService.GetPerson(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "person not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "person": person})
}

type syncReq struct {
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

// SyncPerson stores the signed-in caller as a person. It is called after
// sign-in; the body is optional and overrides token claims.
func (h *Handler) SyncPerson(c *gin.Context) {
	uid := auth.UserFirebaseUID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
		return
	}

	var body syncReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}

	req := domain.SyncRequest{ID: uid, Email: body.Email, DisplayName: body.DisplayName}
	if req.Email == nil {
		if email := auth.UserEmail(c); email != "" {
			req.Email = &email
		}
	}
	if req.DisplayName == nil {
		if name := auth.UserDisplayName(c); name != "" {
			req.DisplayName = &name
		}
	}

	person, err := h.authService.Sync(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to sync person"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "person": person})
}
