// internal/app/features/content/words.go
package content

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	contentstore "github.com/dalemusser/casadefe/internal/app/store/content"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/markdown"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const excerptRunes = 160

// wordView is a pastoral word with its Markdown rendered.
type wordView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	HTML        string             `json:"html"`
	Excerpt     string             `json:"excerpt"`
	PublishedAt time.Time          `json:"published_at"`
}

func renderWord(w models.PastoralWord) (wordView, error) {
	html, err := markdown.Render(w.Body)
	if err != nil {
		return wordView{}, err
	}
	return wordView{
		ID:          w.ID,
		Title:       w.Title,
		Body:        w.Body,
		HTML:        html,
		Excerpt:     markdown.Excerpt(w.Body, excerptRunes),
		PublishedAt: w.PublishedAt,
	}, nil
}

type wordInput struct {
	Title string `json:"title" validate:"required,max=200" label:"Título"`
	Body  string `json:"body" validate:"required,max=20000" label:"Mensagem"`
}

// ListWords returns the latest pastoral words. ?limit= caps the list.
func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			respond.Invalid(w, "Limite inválido.", map[string]string{"limit": "Use um número positivo."})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	words, err := h.Store.ListWords(ctx, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pastoral words failed", err, "Não foi possível carregar as palavras pastorais.")
		return
	}
	out := make([]wordView, 0, len(words))
	for _, pw := range words {
		v, err := renderWord(pw)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "render pastoral word failed", err, "Não foi possível carregar as palavras pastorais.")
			return
		}
		out = append(out, v)
	}
	respond.OK(w, map[string]any{"words": out})
}

func (h *Handler) ShowWord(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, "Palavra não encontrada.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pw, err := h.Store.GetWord(ctx, id)
	if errors.Is(err, contentstore.ErrNotFound) {
		uierrors.NotFound(w, "Palavra não encontrada.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load pastoral word failed", err, "Não foi possível carregar a palavra.")
		return
	}
	v, err := renderWord(pw)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render pastoral word failed", err, "Não foi possível carregar a palavra.")
		return
	}
	respond.OK(w, v)
}

// CreateWord publishes a pastoral word. Admins and moderators only.
func (h *Handler) CreateWord(w http.ResponseWriter, r *http.Request) {
	if !authz.CanPublish(r) {
		uierrors.Forbidden(w, "")
		return
	}
	_, _, uid, _ := authz.UserCtx(r)

	var in wordInput
	if err := respond.Decode(r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode pastoral word failed", err, "Dados inválidos.")
		return
	}
	in.Title = normalize.Text(in.Title)
	if res := inputval.Validate(in); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pw, err := h.Store.CreateWord(ctx, models.PastoralWord{Title: in.Title, Body: in.Body, AuthorID: uid})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create pastoral word failed", err, "Não foi possível publicar a palavra.")
		return
	}
	v, err := renderWord(pw)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render pastoral word failed", err, "Não foi possível publicar a palavra.")
		return
	}
	h.Log.Info("pastoral word published", zap.String("word_id", pw.ID.Hex()), zap.String("author_id", uid.Hex()))
	respond.Created(w, v)
}

func (h *Handler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	if !authz.CanPublish(r) {
		uierrors.Forbidden(w, "")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.NotFound(w, "Palavra não encontrada.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Store.DeleteWord(ctx, id)
	if errors.Is(err, contentstore.ErrNotFound) {
		uierrors.NotFound(w, "Palavra não encontrada.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete pastoral word failed", err, "Não foi possível excluir a palavra.")
		return
	}
	respond.NoContent(w)
}
