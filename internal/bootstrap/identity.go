package bootstrap

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/project-selection-backend/config"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth"
	"github.com/GoSim-25-26J-441/project-selection-backend/internal/auth/middleware"
)

// Identity returns the middleware that identifies the caller for AUTH_MODE.
func Identity(ctx context.Context, cfg *config.FirebaseConfig) (gin.HandlerFunc, error) {
	if cfg.AuthMode != config.AuthModeFirebase {
		return auth.HeaderIdentity(), nil
	}

	client, err := auth.InitializeFirebase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return middleware.FirebaseAuthMiddleware(client), nil
}
