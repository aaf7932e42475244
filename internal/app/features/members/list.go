// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"

	"github.com/dalemusser/casadefe/internal/app/features/shared/currentcasa"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
)

type listResponse struct {
	CasaID  string       `json:"casa_id"`
	Query   string       `json:"q,omitempty"`
	Flag    string       `json:"flag,omitempty"`
	Members []memberView `json:"members"`
}

// ServeList lists the current casa's members by name. ?q= filters by a
// name substring (case and accent insensitive); ?flag=accepted|reconciled
// keeps only flagged members.
// GET /members
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}

	f := memberstore.Filter{
		Query: normalize.QueryParam(r.URL.Query().Get("q")),
		Flag:  normalize.QueryParam(r.URL.Query().Get("flag")),
	}
	if f.Flag != "" && f.Flag != memberstore.FlagAccepted && f.Flag != memberstore.FlagReconciled {
		respond.Invalid(w, "Filtro inválido.", map[string]string{"flag": "Use accepted ou reconciled."})
		return
	}

	list, err := memberstore.New(h.DB).ListByCasa(ctx, casa.ID, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Não foi possível carregar os membros.")
		return
	}
	views := make([]memberView, 0, len(list))
	for _, m := range list {
		views = append(views, viewOf(m))
	}
	respond.OK(w, listResponse{CasaID: casa.ID.Hex(), Query: f.Query, Flag: f.Flag, Members: views})
}
