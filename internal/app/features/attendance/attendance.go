// internal/app/features/attendance/attendance.go
package attendance

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/casadefe/internal/app/features/shared/currentcasa"
	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/app/system/txn"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Entry is one member row of the attendance sheet.
type Entry struct {
	MemberID      primitive.ObjectID `json:"member_id"`
	Name          string             `json:"name,omitempty"`
	Present       bool               `json:"present"`
	AcceptedFaith bool               `json:"accepted_faith"`
	Reconciled    bool               `json:"reconciled"`
}

type sheetResponse struct {
	CasaID    string  `json:"casa_id"`
	Date      string  `json:"date"`
	Recorded  bool    `json:"recorded"`
	Entries   []Entry `json:"entries"`
	ReportURL string  `json:"report_url"`
}

type saveRequest struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
}

type saveResponse struct {
	Date      string `json:"date"`
	Present   int    `json:"present"`
	Absent    int    `json:"absent"`
	ReportURL string `json:"report_url"`
}

// reportURL is where the client files the report for date.
func reportURL(date string) string {
	return "/reports/new?date=" + url.QueryEscape(date)
}

// buildSheet lists every member, checked when present on the date.
func buildSheet(members []models.Member, present []primitive.ObjectID) []Entry {
	in := make(map[primitive.ObjectID]bool, len(present))
	for _, id := range present {
		in[id] = true
	}
	out := make([]Entry, 0, len(members))
	for _, m := range members {
		out = append(out, Entry{
			MemberID:      m.ID,
			Name:          m.Name,
			Present:       in[m.ID],
			AcceptedFaith: m.AcceptedFaith,
			Reconciled:    m.Reconciled,
		})
	}
	return out
}

// ServeSheet returns the casa's members with present pre-checked from the
// rows already saved for ?date= (today when omitted).
// GET /attendance
func (h *Handler) ServeSheet(w http.ResponseWriter, r *http.Request) {
	date := h.now().Format(normalize.DateLayout)
	if raw := normalize.QueryParam(r.URL.Query().Get("date")); raw != "" {
		d, ok := normalize.Date(raw)
		if !ok {
			respond.Invalid(w, "Data inválida.", map[string]string{"date": "Use o formato AAAA-MM-DD."})
			return
		}
		date = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	members, err := memberstore.New(h.DB).ListByCasa(ctx, casa.ID, memberstore.Filter{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Não foi possível carregar os membros.")
		return
	}
	present, err := attendancestore.New(h.DB).PresentOn(ctx, casa.ID, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load attendance failed", err, "Não foi possível carregar a presença.")
		return
	}

	respond.OK(w, sheetResponse{
		CasaID:    casa.ID.Hex(),
		Date:      date,
		Recorded:  len(present) > 0,
		Entries:   buildSheet(members, present),
		ReportURL: reportURL(date),
	})
}

// HandleSave replaces the present set for the date and updates changed
// faith flags, in one transaction. Members left out of entries count as
// absent.
// POST /attendance
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var in saveRequest
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode attendance failed", err, "Dados inválidos.")
		return
	}
	date, ok := normalize.Date(in.Date)
	if !ok {
		respond.Invalid(w, "Data inválida.", map[string]string{"date": "Use o formato AAAA-MM-DD."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	members := memberstore.New(h.DB)
	roster, err := members.ListByCasa(ctx, casa.ID, memberstore.Filter{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Não foi possível carregar os membros.")
		return
	}
	byID := make(map[primitive.ObjectID]models.Member, len(roster))
	for _, m := range roster {
		byID[m.ID] = m
	}

	var present []primitive.ObjectID
	type flagChange struct {
		id                   primitive.ObjectID
		accepted, reconciled bool
	}
	var changes []flagChange
	seen := make(map[primitive.ObjectID]bool, len(in.Entries))
	for i, e := range in.Entries {
		m, known := byID[e.MemberID]
		if !known {
			respond.Invalid(w, "Membro não pertence a esta Casa de Fé.",
				map[string]string{"entries[" + strconv.Itoa(i) + "].member_id": "Membro desconhecido."})
			return
		}
		if seen[e.MemberID] {
			continue
		}
		seen[e.MemberID] = true
		if e.Present {
			present = append(present, e.MemberID)
		}
		if e.AcceptedFaith != m.AcceptedFaith || e.Reconciled != m.Reconciled {
			changes = append(changes, flagChange{e.MemberID, e.AcceptedFaith, e.Reconciled})
		}
	}

	err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := attendancestore.New(h.DB).ReplaceDate(ctx, casa.ID, date, present); err != nil {
			return err
		}
		for _, c := range changes {
			if err := members.SetFlags(ctx, casa.ID, c.id, c.accepted, c.reconciled); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save attendance failed", err, "Não foi possível salvar a presença.")
		return
	}

	if h.Metrics != nil {
		h.Metrics.AttendanceSaved.Inc()
	}
	h.Log.Info("attendance saved",
		zap.String("casa_id", casa.ID.Hex()),
		zap.String("date", date),
		zap.Int("present", len(present)),
		zap.Int("flag_changes", len(changes)))

	respond.OK(w, saveResponse{
		Date:      date,
		Present:   len(present),
		Absent:    len(roster) - len(present),
		ReportURL: reportURL(date),
	})
}

// ServeDates lists the distinct dates with recorded attendance.
// GET /attendance/dates
func (h *Handler) ServeDates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	dates, err := attendancestore.New(h.DB).Dates(ctx, casa.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list attendance dates failed", err, "Não foi possível carregar as datas.")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	respond.OK(w, map[string]any{"casa_id": casa.ID.Hex(), "dates": dates})
}
