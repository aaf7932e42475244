// internal/app/features/registration/casas.go
package registration

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/policy/casapolicy"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	"github.com/dalemusser/casadefe/internal/app/store/cascade"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/app/system/txn"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeMyCasas lists the casas the user registered, oldest first.
// GET /registration/casas
func (h *Handler) ServeMyCasas(w http.ResponseWriter, r *http.Request) {
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
	if list == nil {
		list = []models.Casa{}
	}
	respond.OK(w, map[string]any{"casas": list})
}

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

// HandleEdit enters edit mode: every step's draft is filled from the
// stored casa and roster, and the wizard opens at review.
// POST /registration/casas/{id}/edit
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, ok := h.loadCasa(ctx, w, r)
	if !ok {
		return
	}
	members, err := memberstore.New(h.DB).ListByCasa(ctx, c.ID, memberstore.Filter{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members for edit failed", err, "Não foi possível carregar os membros.")
		return
	}

	saved, err := h.Drafts.Save(ctx, draftFromCasa(uid, c, members))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save edit draft failed", err, "Não foi possível abrir a edição.")
		return
	}
	respond.OK(w, h.draftResponse(saved))
}

// HandleDelete removes a casa and everything attached to it.
// POST /registration/casas/{id}/delete
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
