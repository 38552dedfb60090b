package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode switches gin to release mode in production and to test mode
// when the app runs its test environment.
func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
