// internal/app/features/profile/logins.go
package profile

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	loginstore "github.com/dalemusser/casadefe/internal/app/store/logins"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
)

const recentLogins = 10

// ServeLogins lists the user's most recent sign-ins.
func (h *Handler) ServeLogins(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := loginstore.New(h.DB).Recent(ctx, uid, recentLogins)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list login records failed", err, "Não foi possível carregar os acessos.")
		return
	}
	respond.OK(w, map[string]any{"logins": list})
}
