package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxDisplayName = "display_name"
)

// UserFirebaseUID extracts the caller's Firebase UID from the Gin context.
// It is set by the identity middleware of the active auth mode.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// UserEmail returns the caller's email when the identity carried one.
func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}

// UserDisplayName returns the caller's display name when known.
func UserDisplayName(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxDisplayName))
}
