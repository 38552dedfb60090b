package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PersonEnsurer creates a person row on first sight.
type PersonEnsurer interface {
	Ensure(ctx context.Context, id, email, name string) error
}

// WithPerson makes sure the authenticated caller exists as a person before
// any handler stores rankings for them. It must run after the identity
// middleware.
func WithPerson(people PersonEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UserFirebaseUID(c)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "user not authenticated"})
			return
		}

		if err := people.Ensure(c.Request.Context(), uid, UserEmail(c), UserDisplayName(c)); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure person: " + err.Error()})
			return
		}
		c.Next()
	}
}
