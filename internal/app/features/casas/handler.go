// internal/app/features/casas/handler.go
package casas

import (
	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the leader's casa endpoints.
type Handler struct {
	DB       *mongo.Database
	Sessions *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a casas Handler.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Sessions: sm,
		Log:      logger,
		ErrLog:   errLog,
	}
}
