// internal/app/features/members/edit.go
package members

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/features/shared/currentcasa"
	"github.com/dalemusser/casadefe/internal/app/policy/casapolicy"
	"github.com/dalemusser/casadefe/internal/app/store/cascade"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/app/system/txn"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (memberInput, bool) {
	var in memberInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode member failed", err, "Dados inválidos.")
		return in, false
	}
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return in, false
	}
	return in, true
}

// loadMember resolves {id} to a member of a casa the user manages.
func (h *Handler) loadMember(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Member, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, "Membro não encontrado.")
		return models.Member{}, false
	}
	m, _, err := casapolicy.CheckMemberAccess(ctx, h.DB, r, id)
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		uierrors.NotFound(w, "Membro não encontrado.")
		return models.Member{}, false
	case errors.Is(err, casapolicy.ErrForbidden):
		uierrors.Forbidden(w, "Você não tem acesso a este membro.")
		return models.Member{}, false
	case err != nil:
		h.ErrLog.LogServerError(w, r, "load member failed", err, "Não foi possível carregar o membro.")
		return models.Member{}, false
	}
	return m, true
}

// HandleCreate adds a member to the current casa.
// POST /members
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	m, err := memberstore.New(h.DB).Create(ctx, models.Member{
		CasaID:        casa.ID,
		Name:          in.Name,
		Phone:         in.Phone,
		Age:           in.Age,
		Address:       in.Address,
		Notes:         in.Notes,
		AcceptedFaith: in.AcceptedFaith,
		Reconciled:    in.Reconciled,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create member failed", err, "Não foi possível adicionar o membro.")
		return
	}
	respond.Created(w, viewOf(m))
}

// ServeMember returns one member for the edit dialog.
// GET /members/{id}
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.loadMember(ctx, w, r)
	if !ok {
		return
	}
	respond.OK(w, viewOf(m))
}

// HandleUpdate saves the edit dialog: name, phone, age, address, notes
// and flags.
// PUT /members/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.loadMember(ctx, w, r)
	if !ok {
		return
	}
	store := memberstore.New(h.DB)
	if err := store.Update(ctx, m.ID, in.toUpdate()); err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			uierrors.NotFound(w, "Membro não encontrado.")
			return
		}
		h.ErrLog.LogServerError(w, r, "update member failed", err, "Não foi possível salvar o membro.")
		return
	}
	updated, err := store.GetByID(ctx, m.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload member failed", err, "Membro salvo, mas não foi possível recarregá-lo.")
		return
	}
	respond.OK(w, viewOf(updated))
}

// HandleDelete removes the member and its attendance rows.
// DELETE /members/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.loadMember(ctx, w, r)
	if !ok {
		return
	}
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		return cascade.DeleteMember(ctx, h.DB, m.ID)
	})
	if err != nil && !cascade.IsNotFound(err) {
		h.ErrLog.LogServerError(w, r, "delete member failed", err, "Não foi possível excluir o membro.")
		return
	}
	h.Log.Info("member deleted", zap.String("member_id", m.ID.Hex()), zap.String("casa_id", m.CasaID.Hex()))
	respond.NoContent(w)
}
