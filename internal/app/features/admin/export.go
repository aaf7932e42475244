// internal/app/features/admin/export.go
package admin

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/casadefe/internal/app/system/exporter"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

func casasTable(rows []casaRow) exporter.Table {
	t := exporter.Table{
		Title: "Casas de Fé",
		Headers: []string{"Líder", "E-mail", "Telefone", "Campus", "Rede", "Dias", "Horário",
			"Endereço", "Anfitrião", "Membros"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.LeaderName, r.LeaderEmail, r.PhoneDisplay, r.Campus, r.Network,
			strings.Join(r.MeetingDays, ", "), r.MeetingTime, r.Address, r.HostName,
			strconv.FormatInt(r.MemberCount, 10),
		})
	}
	return t
}

func membersTable(rows []memberRow) exporter.Table {
	t := exporter.Table{
		Title:   "Membros",
		Headers: []string{"Nome", "Telefone", "Idade", "Líder", "Campus", "Rede", "Aceitou Jesus", "Reconciliou"},
	}
	for _, r := range rows {
		age := ""
		if r.Age != nil {
			age = strconv.Itoa(*r.Age)
		}
		t.Rows = append(t.Rows, []string{
			r.Name, r.PhoneDisplay, age, r.LeaderName, r.Campus, r.Network,
			yesNo(r.AcceptedFaith), yesNo(r.Reconciled),
		})
	}
	return t
}

// exportFormat reads {format} from the route. When ok is false the
// response has been written.
func exportFormat(w http.ResponseWriter, r *http.Request) (exporter.Format, bool) {
	f, ok := exporter.ParseFormat(chi.URLParam(r, "format"))
	if !ok {
		respond.Invalid(w, "Formato inválido.", map[string]string{"format": "Use pdf, xlsx ou csv."})
	}
	return f, ok
}

func (h *Handler) serveTable(w http.ResponseWriter, r *http.Request, f exporter.Format, base string, t exporter.Table) {
	if err := exporter.Serve(w, f, base, t); err != nil {
		// Headers may be out already; nothing more to send.
		h.Log.Error("export failed", zap.String("format", string(f)), zap.String("base", base), zap.Error(err))
		return
	}
	if h.Metrics != nil {
		h.Metrics.ExportsGenerated.WithLabelValues(string(f)).Inc()
	}
	h.Log.Info("export generated", zap.String("format", string(f)), zap.String("base", base), zap.Int("rows", len(t.Rows)))
}

// ServeCasasExport downloads the filtered casa listing.
// GET /admin/casas/export.{format}
func (h *Handler) ServeCasasExport(w http.ResponseWriter, r *http.Request) {
	f, ok := exportFormat(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	_, rows, err := h.loadCasaRows(ctx, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list casas failed", err, "Não foi possível gerar o arquivo.")
		return
	}
	h.serveTable(w, r, f, "casas-de-fe", casasTable(rows))
}

// ServeMembersExport downloads the filtered member listing.
// GET /admin/members/export.{format}
func (h *Handler) ServeMembersExport(w http.ResponseWriter, r *http.Request) {
	f, ok := exportFormat(w, r)
	if !ok {
		return
	}
	mf, ok := parseMemberFilter(r)
	if !ok {
		respond.Invalid(w, "Filtro inválido.", map[string]string{"flag": "Use accepted ou reconciled."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := h.loadMemberRows(ctx, mf)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Não foi possível gerar o arquivo.")
		return
	}
	h.serveTable(w, r, f, "membros", membersTable(rows))
}
