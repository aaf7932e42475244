// internal/app/features/reports/handler.go
package reports

import (
	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the meeting reports of the current casa.
//
// Like the other features it wraps the shared Mongo database handle and
// logger, is constructed once in bootstrap and passed into Routes().
type Handler struct {
	DB      *mongo.Database
	Metrics *metrics.Metrics
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

// NewHandler constructs a reports Handler.
func NewHandler(db *mongo.Database, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Metrics: m,
		Log:     logger,
		ErrLog:  errLog,
	}
}
