package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const DemoUserID = "demo-user"

// HeaderIdentity trusts X-User-Id (falling back to DemoUserID), X-User-Email
// and X-User-Name. Use this ONLY for development and testing
// (AUTH_MODE=header).
func HeaderIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = DemoUserID
		}

		c.Set(CtxFirebaseUID, uid)
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxEmail, email)
		}
		if name := strings.TrimSpace(c.GetHeader("X-User-Name")); name != "" {
			c.Set(CtxDisplayName, name)
		}

		c.Next()
	}
}
