// internal/app/features/casas/list.go
package casas

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/policy/casapolicy"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	"github.com/dalemusser/casadefe/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// casaRow is a casa in the "my casas" list.
type casaRow struct {
	models.Casa
	MemberCount int64 `json:"member_count"`
	Selected    bool  `json:"selected"`
}

// ServeList lists the user's casas with member counts, marking the
// current one.
// GET /casas
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := casastore.New(h.DB).ListByOwner(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list own casas failed", err, "Não foi possível carregar suas Casas de Fé.")
		return
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	counts := map[primitive.ObjectID]int64{}
	if len(ids) > 0 {
		if counts, err = reportqueries.CountMembersPerCasa(ctx, h.DB, ids); err != nil {
			h.ErrLog.LogServerError(w, r, "count members failed", err, "Não foi possível carregar suas Casas de Fé.")
			return
		}
	}

	// Same fallback as Current: first casa when nothing valid is selected.
	sel, hasSel := authz.SelectedCasaID(r)
	if hasSel {
		hasSel = false
		for _, id := range ids {
			if id == sel {
				hasSel = true
				break
			}
		}
	}
	if !hasSel && len(ids) > 0 {
		sel = ids[0]
	}

	rows := make([]casaRow, 0, len(list))
	for _, c := range list {
		rows = append(rows, casaRow{Casa: c, MemberCount: counts[c.ID], Selected: c.ID == sel})
	}
	respond.OK(w, map[string]any{"casas": rows})
}

// ServeCurrent returns the casa the user is working on.
// GET /casas/current
func (h *Handler) ServeCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := casapolicy.Current(ctx, h.DB, r)
	if errors.Is(err, casapolicy.ErrNoCasa) {
		uierrors.NotFound(w, "Você ainda não cadastrou uma Casa de Fé.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "resolve current casa failed", err, "Não foi possível carregar a Casa de Fé.")
		return
	}
	respond.OK(w, c)
}

type selectRequest struct {
	CasaID string `json:"casa_id"`
}

// HandleSelect stores the chosen casa in the session. An unknown or
// foreign id falls back to the user's first casa.
// POST /casas/select
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var in selectRequest
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode select failed", err, "Dados inválidos.")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var chosen models.Casa
	if id, err := primitive.ObjectIDFromHex(in.CasaID); err == nil {
		c, err := casapolicy.LoadManaged(ctx, h.DB, r, id)
		switch {
		case err == nil:
			chosen = c
		case errors.Is(err, casastore.ErrNotFound), errors.Is(err, casapolicy.ErrForbidden):
		default:
			h.ErrLog.LogServerError(w, r, "load casa for select failed", err, "Não foi possível selecionar a Casa de Fé.")
			return
		}
	}
	if chosen.ID.IsZero() {
		_, _, uid, _ := authz.UserCtx(r)
		owned, err := casastore.New(h.DB).ListByOwner(ctx, uid)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list own casas failed", err, "Não foi possível selecionar a Casa de Fé.")
			return
		}
		if len(owned) == 0 {
			uierrors.NotFound(w, "Você ainda não cadastrou uma Casa de Fé.")
			return
		}
		h.Log.Info("casa selection fell back to first owned",
			zap.String("requested", in.CasaID), zap.String("casa_id", owned[0].ID.Hex()))
		chosen = owned[0]
	}

	if err := h.Sessions.SetSelectedCasa(w, r, chosen.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save selected casa failed", err, "Não foi possível selecionar a Casa de Fé.")
		return
	}
	respond.OK(w, chosen)
}
