// internal/app/features/registration/steps.go
package registration

import (
	"context"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// draftResponse is the wizard state returned by every draft endpoint.
type draftResponse struct {
	models.RegistrationDraft
	Closed bool       `json:"registration_closed"`
	Cutoff *time.Time `json:"registration_cutoff,omitempty"`
}

func (h *Handler) draftResponse(d models.RegistrationDraft) draftResponse {
	normalizeRoster(&d.Roster)
	if d.Casa.MeetingDays == nil {
		d.Casa.MeetingDays = []string{}
	}
	resp := draftResponse{RegistrationDraft: d, Closed: h.Closed()}
	if !h.Cutoff.IsZero() {
		c := h.Cutoff
		resp.Cutoff = &c
	}
	return resp
}

// loadDraft returns the user's live draft or a fresh one at step 1.
func (h *Handler) loadDraft(ctx context.Context, uid primitive.ObjectID) (models.RegistrationDraft, error) {
	d, ok, err := h.Drafts.Get(ctx, uid)
	if err != nil {
		return models.RegistrationDraft{}, err
	}
	if !ok {
		d = models.RegistrationDraft{UserID: uid, Step: StepPersonal}
	}
	if d.Step < StepPersonal {
		d.Step = StepPersonal
	}
	return d, nil
}

// ServeDraft returns the current wizard state.
// GET /registration
func (h *Handler) ServeDraft(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.loadDraft(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load registration draft failed", err, "Não foi possível carregar o cadastro.")
		return
	}
	respond.OK(w, h.draftResponse(d))
}

// HandleStep validates and stores one step's draft. The draft only
// advances when every field of the step is valid.
// POST /registration/steps/{step}
func (h *Handler) HandleStep(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil || step < StepPersonal || step > StepRoster {
		uierrors.NotFound(w, "Etapa inexistente.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.loadDraft(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load registration draft failed", err, "Não foi possível carregar o cadastro.")
		return
	}
	if step > d.Step {
		respond.Error(w, http.StatusConflict, "Conclua as etapas anteriores primeiro.")
		return
	}

	var res inputval.Result
	switch step {
	case StepPersonal:
		var in models.PersonalDraft
		if err := respond.Decode(r, &in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode personal draft failed", err, "Dados inválidos.")
			return
		}
		normalizePersonal(&in)
		d.Personal = in
		res = inputval.Validate(in)
	case StepCasa:
		var in models.CasaDraft
		if err := respond.Decode(r, &in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode casa draft failed", err, "Dados inválidos.")
			return
		}
		normalizeCasa(&in)
		d.Casa = in
		res = inputval.Validate(in)
	case StepRoster:
		var in models.RosterDraft
		if err := respond.Decode(r, &in); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode roster draft failed", err, "Dados inválidos.")
			return
		}
		normalizeRoster(&in)
		d.Roster = in
		res = validateRoster(in)
	}
	if res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return
	}

	if d.Step < step+1 {
		d.Step = step + 1
	}
	saved, err := h.Drafts.Save(ctx, d)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save registration draft failed", err, "Não foi possível salvar o rascunho.")
		return
	}
	respond.OK(w, h.draftResponse(saved))
}

// HandleDiscard drops the draft, leaving edit mode if active.
// DELETE /registration
func (h *Handler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Drafts.Delete(ctx, uid); err != nil {
		h.ErrLog.LogServerError(w, r, "discard registration draft failed", err, "Não foi possível descartar o rascunho.")
		return
	}
	respond.NoContent(w)
}
