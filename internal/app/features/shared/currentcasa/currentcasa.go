// Package currentcasa resolves the casa a leader screen works on and
// writes the error response when there is none.
package currentcasa

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/policy/casapolicy"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Resolve returns the current casa. When ok is false the response has
// already been written: 404 when the user has no casa yet.
func Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request, db *mongo.Database, errLog *uierrors.ErrorLogger) (models.Casa, bool) {
	c, err := casapolicy.Current(ctx, db, r)
	switch {
	case errors.Is(err, casapolicy.ErrNoCasa):
		uierrors.NotFound(w, "Cadastre uma Casa de Fé para continuar.")
		return models.Casa{}, false
	case errors.Is(err, casapolicy.ErrForbidden):
		uierrors.Unauthorized(w)
		return models.Casa{}, false
	case err != nil:
		errLog.LogServerError(w, r, "resolve current casa failed", err, "Não foi possível carregar a Casa de Fé.")
		return models.Casa{}, false
	}
	return c, true
}
