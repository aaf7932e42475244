// internal/app/features/admin/reports.go
package admin

import (
	"context"
	"net/http"

	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	"github.com/dalemusser/casadefe/internal/app/store/queries/reportqueries"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"github.com/dalemusser/casadefe/internal/app/system/paging"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reportRow struct {
	models.Report
	LeaderName string `json:"leader_name"`
	Campus     string `json:"campus"`
}

// ServeReports lists every report, newest meeting first, with the name of
// its casa's leader.
// GET /admin/reports
func (h *Handler) ServeReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reports, err := reportstore.New(h.DB).ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "Não foi possível carregar os relatórios.")
		return
	}
	casas, err := casastore.New(h.DB).ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list casas failed", err, "Não foi possível carregar os relatórios.")
		return
	}
	byID := make(map[primitive.ObjectID]models.Casa, len(casas))
	for _, c := range casas {
		byID[c.ID] = c
	}

	rows := make([]reportRow, 0, len(reports))
	for _, rep := range reports {
		c := byID[rep.CasaID]
		rows = append(rows, reportRow{Report: rep, LeaderName: c.LeaderName, Campus: c.Campus})
	}
	page, rg := paging.FromRequest(r, rows)
	respond.OK(w, map[string]any{"total": len(rows), "page": rg, "reports": page})
}

type pendingResponse struct {
	Pending int                        `json:"pending"`
	Unknown int                        `json:"unknown"`
	Casas   []reportqueries.CasaStatus `json:"casas"`
}

// ServePending checks each casa for a report on its latest expected
// meeting. Casas without a usable weekday are counted as unknown.
// GET /admin/pending
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	statuses, err := reportqueries.AdminPending(ctx, h.DB, h.now())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load pending casas failed", err, "Não foi possível carregar as pendências.")
		return
	}
	out := pendingResponse{Casas: statuses}
	for _, st := range statuses {
		switch {
		case st.Unknown:
			out.Unknown++
		case st.Pending():
			out.Pending++
		}
	}
	respond.OK(w, out)
}
