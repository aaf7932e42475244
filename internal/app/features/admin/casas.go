// internal/app/features/admin/casas.go
package admin

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/store/queries/reportqueries"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"github.com/dalemusser/casadefe/internal/app/system/paging"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// casaRow is one line of the admin casa listing.
type casaRow struct {
	models.Casa
	MemberCount  int64  `json:"member_count"`
	PhoneDisplay string `json:"leader_phone_display"`
}

type casasResponse struct {
	Filter CasaFilter   `json:"filter"`
	Total  int          `json:"total"`
	Page   paging.Range `json:"page"`
	Casas  []casaRow    `json:"casas"`
}

// loadCasaRows lists every casa matching the request's filter with its
// member count.
func (h *Handler) loadCasaRows(ctx context.Context, r *http.Request) (CasaFilter, []casaRow, error) {
	f := parseCasaFilter(r)
	all, err := casastore.New(h.DB).ListAll(ctx)
	if err != nil {
		return f, nil, err
	}
	counts, err := reportqueries.CountMembersPerCasa(ctx, h.DB, nil)
	if err != nil {
		return f, nil, err
	}
	casas := FilterCasas(all, f, h.NetworkCampus)
	rows := make([]casaRow, 0, len(casas))
	for _, c := range casas {
		rows = append(rows, casaRow{Casa: c, MemberCount: counts[c.ID], PhoneDisplay: phone.Format(c.LeaderPhone)})
	}
	return f, rows, nil
}

// ServeCasas lists every casa. ?q= ?campus= ?network= filter in memory;
// ?start= and ?size= page the result.
// GET /admin/casas
func (h *Handler) ServeCasas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	f, rows, err := h.loadCasaRows(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list casas failed", err, "Não foi possível carregar as Casas de Fé.")
		return
	}
	page, rg := paging.FromRequest(r, rows)
	respond.OK(w, casasResponse{Filter: f, Total: len(rows), Page: rg, Casas: page})
}

type casaDetail struct {
	Casa         models.Casa     `json:"casa"`
	Members      []models.Member `json:"members"`
	Reports      []models.Report `json:"reports"`
	WhatsAppLink string          `json:"whatsapp_link,omitempty"`
	HostLink     string          `json:"host_whatsapp_link,omitempty"`
}

// ServeCasa returns one casa with its members, reports and WhatsApp links.
// GET /admin/casas/{id}
func (h *Handler) ServeCasa(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, "Casa de Fé não encontrada.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := casastore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, casastore.ErrNotFound) {
		uierrors.NotFound(w, "Casa de Fé não encontrada.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load casa failed", err, "Não foi possível carregar a Casa de Fé.")
		return
	}
	members, err := memberstore.New(h.DB).ListByCasa(ctx, id, memberstore.Filter{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Não foi possível carregar a Casa de Fé.")
		return
	}
	reports, err := reportstore.New(h.DB).ListByCasa(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "Não foi possível carregar a Casa de Fé.")
		return
	}

	out := casaDetail{Casa: c, Members: members, Reports: reports}
	if link, ok := phone.WhatsAppLink(c.LeaderPhone, ""); ok {
		out.WhatsAppLink = link
	}
	if link, ok := phone.WhatsAppLink(c.HostPhone, ""); ok {
		out.HostLink = link
	}
	respond.OK(w, out)
}
