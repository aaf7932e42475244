// internal/app/features/content/feed.go
package content

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/features/shared/currentcasa"
	contentstore "github.com/dalemusser/casadefe/internal/app/store/content"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/htmlsanitize"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// postInput is the body of a testimony or prayer request. Name defaults
// to the signed-in user's name.
type postInput struct {
	Name string `json:"name" validate:"max=120" label:"Nome"`
	Text string `json:"text" validate:"required,max=2000" label:"Texto"`
}

func (in *postInput) clean(fallbackName string) {
	in.Name = normalize.Name(htmlsanitize.StripTags(in.Name))
	if in.Name == "" {
		in.Name = fallbackName
	}
	in.Text = normalize.Text(htmlsanitize.StripTags(in.Text))
}

// decodePost reads and validates a feed post. When ok is false the
// response has been written.
func (h *Handler) decodePost(w http.ResponseWriter, r *http.Request) (postInput, bool) {
	_, name, _, _ := authz.UserCtx(r)
	var in postInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode feed post failed", err, "Dados inválidos.")
		return postInput{}, false
	}
	in.clean(name)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return postInput{}, false
	}
	return in, true
}

// deleteScope returns the author a delete is limited to. Admins and
// moderators may delete any post, which the store expresses as a nil id.
func deleteScope(r *http.Request) primitive.ObjectID {
	_, _, uid, _ := authz.UserCtx(r)
	if authz.CanPublish(r) {
		return primitive.NilObjectID
	}
	return uid
}

func (h *Handler) ListTestimonies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	list, err := h.Store.ListTestimonies(ctx, casa.ID, 0)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list testimonies failed", err, "Não foi possível carregar os testemunhos.")
		return
	}
	respond.OK(w, map[string]any{"casa_id": casa.ID.Hex(), "testimonies": list})
}

func (h *Handler) CreateTestimony(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodePost(w, r)
	if !ok {
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	t, err := h.Store.CreateTestimony(ctx, models.Testimony{CasaID: casa.ID, AuthorID: uid, Name: in.Name, Text: in.Text})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create testimony failed", err, "Não foi possível publicar o testemunho.")
		return
	}
	respond.Created(w, t)
}

func (h *Handler) DeleteTestimony(w http.ResponseWriter, r *http.Request) {
	h.deletePost(w, r, h.Store.DeleteTestimony, "Testemunho não encontrado.")
}

func (h *Handler) ListPrayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	list, err := h.Store.ListPrayers(ctx, casa.ID, 0)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list prayer requests failed", err, "Não foi possível carregar os pedidos de oração.")
		return
	}
	respond.OK(w, map[string]any{"casa_id": casa.ID.Hex(), "prayer_requests": list})
}

func (h *Handler) CreatePrayer(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodePost(w, r)
	if !ok {
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	casa, ok := currentcasa.Resolve(ctx, w, r, h.DB, h.ErrLog)
	if !ok {
		return
	}
	p, err := h.Store.CreatePrayer(ctx, models.PrayerRequest{CasaID: casa.ID, AuthorID: uid, Name: in.Name, Text: in.Text})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create prayer request failed", err, "Não foi possível publicar o pedido de oração.")
		return
	}
	respond.Created(w, p)
}

func (h *Handler) DeletePrayer(w http.ResponseWriter, r *http.Request) {
	h.deletePost(w, r, h.Store.DeletePrayer, "Pedido de oração não encontrado.")
}

// deletePost removes a post the caller wrote. Someone else's post reads
// as not found.
func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request,
	del func(ctx context.Context, id, authorID primitive.ObjectID) error, notFound string) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, notFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = del(ctx, id, deleteScope(r))
	if errors.Is(err, contentstore.ErrNotFound) {
		uierrors.NotFound(w, notFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete feed post failed", err, "Não foi possível excluir.")
		return
	}
	respond.NoContent(w)
}
