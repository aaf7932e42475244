// internal/app/features/registration/handler.go
package registration

import (
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	draftstore "github.com/dalemusser/casadefe/internal/app/store/drafts"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the registration wizard.
//
// Cutoff is the instant registration closes; the zero value keeps it open.
type Handler struct {
	DB       *mongo.Database
	Sessions *auth.SessionManager
	Drafts   *draftstore.Store
	Metrics  *metrics.Metrics
	Cutoff   time.Time
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger

	now func() time.Time
}

// NewHandler constructs a registration Handler. Drafts expire after
// draftTTL.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, m *metrics.Metrics, cutoff time.Time, draftTTL time.Duration, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Sessions: sm,
		Drafts:   draftstore.New(db, draftTTL),
		Metrics:  m,
		Cutoff:   cutoff,
		Log:      logger,
		ErrLog:   errLog,
		now:      time.Now,
	}
}

// Closed reports whether the cutoff has passed.
func (h *Handler) Closed() bool {
	return !h.Cutoff.IsZero() && !h.now().Before(h.Cutoff)
}

// ParseCutoff reads the registration_cutoff setting. A bare date
// (YYYY-MM-DD) is the last day registration is open, closing at midnight
// in loc; RFC 3339 timestamps are taken as-is. Empty means no cutoff.
func ParseCutoff(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.AddDate(0, 0, 1), nil
}
