// internal/app/features/dashboard/overview.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/casadefe/internal/app/store/queries/analytics"
	"github.com/dalemusser/casadefe/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
)

type overview struct {
	TotalCasas       int     `json:"total_casas"`
	TotalMembers     int     `json:"total_members"`
	TotalReports     int     `json:"total_reports"`
	AcceptedPct      float64 `json:"accepted_pct"`
	ReconciledPct    float64 `json:"reconciled_pct"`
	AttendanceRate   float64 `json:"attendance_rate"`
	PendingCasas     int     `json:"pending_casas"`
	UnscheduledCasas int     `json:"unscheduled_casas"`
}

// ServeOverview is the admin landing summary. The full figures live under
// /admin/analytics.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	in, err := analytics.Load(ctx, h.DB)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load analytics failed", err, "Não foi possível carregar o painel.")
		return
	}
	s := analytics.Compute(in)

	statuses, err := reportqueries.AdminPending(ctx, h.DB, h.now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load pending casas failed", err, "Não foi possível carregar o painel.")
		return
	}
	out := overview{
		TotalCasas:     s.TotalCasas,
		TotalMembers:   s.TotalMembers,
		TotalReports:   s.TotalReports,
		AcceptedPct:    s.AcceptedPct,
		ReconciledPct:  s.ReconciledPct,
		AttendanceRate: s.AttendanceRate,
	}
	for _, st := range statuses {
		switch {
		case st.Unknown:
			out.UnscheduledCasas++
		case st.Pending():
			out.PendingCasas++
		}
	}
	respond.OK(w, out)
}
