// internal/app/features/dashboard/casa.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/casadefe/internal/app/features/shared/currentcasa"
	"github.com/dalemusser/casadefe/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
)

// ServeCasa renders the leader dashboard of the current casa: member
// counts, per-member tallies, pending reports and the latest feeds.
func (h *Handler) ServeCasa(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	in, err := dashboardqueries.Load(ctx, h.DB, casa.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load dashboard failed", err, "Não foi possível carregar o painel.")
		return
	}
	respond.OK(w, dashboardqueries.Assemble(in))
}
