// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/meetings"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	now func() time.Time
}

func NewHandler(db *mongo.Database, loc *time.Location, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Log:    logger,
		ErrLog: errLog,
		now:    meetings.Clock(loc),
	}
}

// ServeDashboard dispatches on role. Admins and moderators get the
// console overview unless ?view=casa asks for their own casa; everyone
// else gets the dashboard of their current casa.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}

	switch role {
	case models.RoleAdmin, models.RoleModerator:
		if r.URL.Query().Get("view") != "casa" {
			h.ServeOverview(w, r)
			return
		}
	}
	h.ServeCasa(w, r)
}
