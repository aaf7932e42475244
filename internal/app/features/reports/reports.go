// internal/app/features/reports/reports.go
package reports

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/features/shared/currentcasa"
	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	"github.com/dalemusser/casadefe/internal/app/store/queries/reportqueries"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submitRequest struct {
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type newReportResponse struct {
	CasaID        string `json:"casa_id"`
	Date          string `json:"date"`
	HasAttendance bool   `json:"has_attendance"`
	Reported      bool   `json:"reported"`
	Notes         string `json:"notes"`
}

// ServePending lists attendance dates that still lack a filled report.
// GET /reports/pending
func (h *Handler) ServePending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	dates, err := reportqueries.LoadPending(ctx, h.DB, casa.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load pending reports failed", err, "Não foi possível carregar os relatórios pendentes.")
		return
	}
	respond.OK(w, map[string]any{"casa_id": casa.ID.Hex(), "pending": dates})
}

// ServeNew prefills the report form for ?date=.
// GET /reports/new
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	date, ok := normalize.Date(r.URL.Query().Get("date"))
	if !ok {
		respond.Invalid(w, "Data inválida.", map[string]string{"date": "Use o formato AAAA-MM-DD."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	has, err := attendancestore.New(h.DB).HasDate(ctx, casa.ID, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check attendance failed", err, "Não foi possível carregar o relatório.")
		return
	}
	out := newReportResponse{CasaID: casa.ID.Hex(), Date: date, HasAttendance: has}
	existing, err := reportstore.New(h.DB).GetByCasaDate(ctx, casa.ID, date)
	switch {
	case err == nil:
		out.Reported = existing.Filled()
		out.Notes = existing.Notes
	case !errors.Is(err, reportstore.ErrNotFound):
		h.ErrLog.LogServerError(w, r, "load report failed", err, "Não foi possível carregar o relatório.")
		return
	}
	respond.OK(w, out)
}

// HandleSubmit files the notes of one meeting. The date must have
// attendance and must not be reported yet.
// POST /reports
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var in submitRequest
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode report failed", err, "Dados inválidos.")
		return
	}
	fields := map[string]string{}
	date, ok := normalize.Date(in.Date)
	if !ok {
		fields["date"] = "Use o formato AAAA-MM-DD."
	}
	notes := strings.TrimSpace(in.Notes)
	if notes == "" {
		fields["notes"] = "Escreva o relatório da reunião."
	}
	if len(fields) > 0 {
		respond.Invalid(w, "Verifique os campos destacados.", fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	has, err := attendancestore.New(h.DB).HasDate(ctx, casa.ID, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check attendance failed", err, "Não foi possível enviar o relatório.")
		return
	}
	if !has {
		respond.Invalid(w, "Registre a presença desta data antes do relatório.",
			map[string]string{"date": "Não há presença registrada nesta data."})
		return
	}

	rep, err := reportstore.New(h.DB).Submit(ctx, casa.ID, date, notes)
	switch {
	case errors.Is(err, reportstore.ErrReportExists):
		respond.Error(w, http.StatusConflict, "Já existe um relatório para esta data.")
		return
	case errors.Is(err, reportstore.ErrEmptyNotes):
		respond.Invalid(w, "Verifique os campos destacados.", map[string]string{"notes": "Escreva o relatório da reunião."})
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "submit report failed", err, "Não foi possível enviar o relatório.")
		return
	}

	if h.Metrics != nil {
		h.Metrics.ReportsSubmitted.Inc()
	}
	h.Log.Info("report submitted",
		zap.String("casa_id", casa.ID.Hex()),
		zap.String("date", date))
	respond.Created(w, rep)
}

// ServeList returns the casa's reports, newest meeting first.
// GET /reports
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	list, err := reportstore.New(h.DB).ListByCasa(ctx, casa.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list reports failed", err, "Não foi possível carregar os relatórios.")
		return
	}
	respond.OK(w, map[string]any{"casa_id": casa.ID.Hex(), "reports": list})
}

// ServeReport returns one report of the current casa.
// GET /reports/{id}
func (h *Handler) ServeReport(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, "Relatório não encontrado.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	rep, err := reportstore.New(h.DB).GetByID(ctx, id)
	if errors.Is(err, reportstore.ErrNotFound) || (err == nil && !belongs(rep, casa)) {
		uierrors.NotFound(w, "Relatório não encontrado.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load report failed", err, "Não foi possível carregar o relatório.")
		return
	}
	respond.OK(w, rep)
}

func belongs(rep models.Report, c models.Casa) bool { return rep.CasaID == c.ID }
