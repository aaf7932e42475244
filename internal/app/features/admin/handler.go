// internal/app/features/admin/handler.go
package admin

import (
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/meetings"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the admin console: cross-casa listings, pending reports,
// exports and analytics.
type Handler struct {
	DB      *mongo.Database
	Metrics *metrics.Metrics
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger

	// NetworkCampus is the only campus whose casas are split by network.
	NetworkCampus string

	now func() time.Time
}

func NewHandler(db *mongo.Database, m *metrics.Metrics, networkCampus string, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Metrics:       m,
		Log:           logger,
		ErrLog:        errLog,
		NetworkCampus: networkCampus,
		now:           meetings.Clock(loc),
	}
}
