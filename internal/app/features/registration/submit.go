// internal/app/features/registration/submit.go
package registration

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/policy/casapolicy"
	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/app/system/txn"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.uber.org/zap"
)

type submitResponse struct {
	Casa    models.Casa     `json:"casa"`
	Members []models.Member `json:"members"`
	Edited  bool            `json:"edited"`
}

// HandleSubmit persists the reviewed draft: a new casa with its roster,
// or, in edit mode, the updated casa with its roster replaced. Both run
// in one transaction. After the cutoff nothing is written.
// POST /registration/submit
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.Unauthorized(w)
		return
	}
	if h.Closed() {
		respond.Error(w, http.StatusForbidden,
			"As inscrições de Casas de Fé foram encerradas em "+h.Cutoff.Add(-time.Nanosecond).Format("02/01/2006")+".")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, found, err := h.Drafts.Get(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load registration draft failed", err, "Não foi possível carregar o cadastro.")
		return
	}
	if !found || d.Step < StepReview {
		respond.Error(w, http.StatusConflict, "Conclua todas as etapas antes de enviar.")
		return
	}
	if res := validateAll(d); res.HasErrors() {
		respond.Invalid(w, res.First(), res.Fields)
		return
	}

	casas := casastore.New(h.DB)
	members := memberstore.New(h.DB)
	edited := d.EditingCasaID != nil

	var casa models.Casa
	if edited {
		existing, err := casapolicy.LoadManaged(ctx, h.DB, r, *d.EditingCasaID)
		switch {
		case errors.Is(err, casastore.ErrNotFound):
			uierrors.NotFound(w, "Casa de Fé não encontrada.")
			return
		case errors.Is(err, casapolicy.ErrForbidden):
			uierrors.Forbidden(w, "Você não pode editar esta Casa de Fé.")
			return
		case err != nil:
			h.ErrLog.LogServerError(w, r, "load casa for edit failed", err, "Não foi possível carregar a Casa de Fé.")
			return
		}
		casa = buildCasa(d, existing.OwnerID)
		casa.ID = existing.ID
		casa.CreatedAt = existing.CreatedAt

		err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
			if err := casas.Replace(ctx, casa); err != nil {
				return err
			}
			removed, err := members.ReplaceRoster(ctx, casa.ID, buildRoster(d.Roster, casa.ID))
			if err != nil {
				return err
			}
			_, err = attendancestore.New(h.DB).DeleteByMembers(ctx, removed)
			return err
		})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "update casa failed", err, "Não foi possível salvar as alterações.")
			return
		}
	} else {
		casa = buildCasa(d, uid)
		err = txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
			created, err := casas.Create(ctx, casa)
			if err != nil {
				return err
			}
			casa = created
			_, err = members.CreateMany(ctx, casa.ID, buildRoster(d.Roster, casa.ID))
			return err
		})
		if err != nil {
			h.ErrLog.LogServerError(w, r, "create casa failed", err, "Não foi possível concluir o cadastro.")
			return
		}
	}

	if err := h.Drafts.Delete(ctx, uid); err != nil {
		h.Log.Warn("clear registration draft failed", zap.Error(err), zap.String("user_id", uid.Hex()))
	}

	roster, err := members.ListByCasa(ctx, casa.ID, memberstore.Filter{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Cadastro salvo, mas não foi possível carregar os membros.")
		return
	}
	if roster == nil {
		roster = []models.Member{}
	}

	if edited {
		h.Log.Info("casa updated", zap.String("casa_id", casa.ID.Hex()), zap.Int("members", len(roster)))
		respond.OK(w, submitResponse{Casa: casa, Members: roster, Edited: true})
		return
	}

	if h.Metrics != nil {
		h.Metrics.CasasRegistered.Inc()
	}
	if err := h.Sessions.SetSelectedCasa(w, r, casa.ID.Hex()); err != nil {
		h.Log.Warn("select new casa failed", zap.Error(err))
	}
	h.Log.Info("casa registered", zap.String("casa_id", casa.ID.Hex()), zap.Int("members", len(roster)))
	respond.Created(w, submitResponse{Casa: casa, Members: roster})
}
