// internal/app/features/content/handler.go
package content

import (
	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	contentstore "github.com/dalemusser/casadefe/internal/app/store/content"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the devotional feed: global pastoral words plus the
// testimonies and prayer requests of the current casa.
type Handler struct {
	DB     *mongo.Database
	Store  *contentstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Store:  contentstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
