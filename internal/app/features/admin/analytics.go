// internal/app/features/admin/analytics.go
package admin

import (
	"context"
	"net/http"

	"github.com/dalemusser/casadefe/internal/app/store/queries/analytics"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
)

// ServeAnalytics returns totals, percentages and breakdowns over every
// casa.
// GET /admin/analytics
func (h *Handler) ServeAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	in, err := analytics.Load(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load analytics failed", err, "Não foi possível carregar as estatísticas.")
		return
	}
	respond.OK(w, analytics.Compute(in))
}
