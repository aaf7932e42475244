// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Login / login: The email or phone the user types to sign in

import (
	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"github.com/dalemusser/casadefe/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
	Metrics    *metrics.Metrics
}

// NewHandler builds the sign-in handler. perIP caps attempts per minute
// from one address; zero uses the limiter's default.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, m *metrics.Metrics, perIP int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    ratelimit.NewLoginLimiter(perIP, 0),
		Metrics:    m,
	}
}
