// internal/app/features/casas/casa.go
package casas

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/policy/casapolicy"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	"github.com/dalemusser/casadefe/internal/app/store/cascade"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/app/system/txn"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// loadCasa resolves {id} to a casa the user manages, writing the error
// response itself when it cannot.
func (h *Handler) loadCasa(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Casa, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, "Casa de Fé não encontrada.")
		return models.Casa{}, false
	}
	c, err := casapolicy.LoadManaged(ctx, h.DB, r, id)
	switch {
	case errors.Is(err, casastore.ErrNotFound):
		uierrors.NotFound(w, "Casa de Fé não encontrada.")
		return models.Casa{}, false
	case errors.Is(err, casapolicy.ErrForbidden):
		uierrors.Forbidden(w, "Você não tem acesso a esta Casa de Fé.")
		return models.Casa{}, false
	case err != nil:
		h.ErrLog.LogServerError(w, r, "load casa failed", err, "Não foi possível carregar a Casa de Fé.")
		return models.Casa{}, false
	}
	return c, true
}

// ServeCasa returns one casa.
// GET /casas/{id}
func (h *Handler) ServeCasa(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.loadCasa(ctx, w, r)
	if !ok {
		return
	}
	respond.OK(w, c)
}

// HandleUpdate applies a partial update of the meeting, host, facilitator
// 2 and address fields.
// PATCH /casas/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var p casastore.Patch
	if err := respond.Decode(r, &p); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode casa patch failed", err, "Dados inválidos.")
		return
	}
	if res := inputval.Validate(p); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.loadCasa(ctx, w, r)
	if !ok {
		return
	}
	updated := p.Apply(c)
	if err := casastore.New(h.DB).Replace(ctx, updated); err != nil {
		if errors.Is(err, casastore.ErrNotFound) {
			uierrors.NotFound(w, "Casa de Fé não encontrada.")
			return
		}
		h.ErrLog.LogServerError(w, r, "update casa failed", err, "Não foi possível salvar as alterações.")
		return
	}
	respond.OK(w, updated)
}

// HandleDelete removes the casa with its members, attendance, reports and
// feed posts.
// DELETE /casas/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, ok := h.loadCasa(ctx, w, r)
	if !ok {
		return
	}
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return cascade.DeleteCasa(ctx, h.DB, c.ID)
	})
	if err != nil && !cascade.IsNotFound(err) {
		h.ErrLog.LogServerError(w, r, "delete casa failed", err, "Não foi possível excluir a Casa de Fé.")
		return
	}
	if sel, ok := authz.SelectedCasaID(r); ok && sel == c.ID {
		if err := h.Sessions.SetSelectedCasa(w, r, ""); err != nil {
			h.Log.Warn("clear selected casa failed", zap.Error(err))
		}
	}
	h.Log.Info("casa deleted", zap.String("casa_id", c.ID.Hex()))
	respond.NoContent(w)
}
