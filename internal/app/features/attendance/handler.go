// internal/app/features/attendance/handler.go
package attendance

import (
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/meetings"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the attendance recorder of the current casa.
type Handler struct {
	DB      *mongo.Database
	Metrics *metrics.Metrics
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger

	now func() time.Time
}

// NewHandler constructs an attendance Handler. The default sheet date is
// today in loc.
func NewHandler(db *mongo.Database, m *metrics.Metrics, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Metrics: m,
		Log:     logger,
		ErrLog:  errLog,
		now:     meetings.Clock(loc),
	}
}
