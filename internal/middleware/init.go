package middleware

import (
	"go.uber.org/zap"

	"ikigai/pkg/logger"
)

// Init wires up the middlewares that need shared state.
func Init() error {
	if err := initAuthMiddleware(); err != nil {
		logger.Logger.Error("Failed to initialize auth middleware", zap.Error(err))
		return err
	}

	logger.Logger.Info("All middlewares initialized successfully")
	return nil
}
