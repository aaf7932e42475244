// Package casapolicy decides which casa a request may work on.
//
// Authorization rules:
//   - Admins can view and manage every casa
//   - Other users can only view and manage casas they registered
//   - The "current" casa is the one selected in the session, falling back
//     to the user's first casa when the selection is missing or foreign
package casapolicy

import (
	"context"
	"errors"
	"net/http"

	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/authz"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrForbidden means the casa exists but belongs to someone else.
	ErrForbidden = errors.New("casa belongs to another user")
	// ErrNoCasa means the user has not registered any casa yet.
	ErrNoCasa = errors.New("user has no casa")
)

// CanManage reports whether the current request user can manage c.
func CanManage(r *http.Request, c models.Casa) bool {
	return authz.CanManageCasa(r, c.OwnerID)
}

// LoadManaged fetches casa id and checks the request user may manage it.
// Returns casastore.ErrNotFound or ErrForbidden when not.
func LoadManaged(ctx context.Context, db *mongo.Database, r *http.Request, id primitive.ObjectID) (models.Casa, error) {
	c, err := casastore.New(db).GetByID(ctx, id)
	if err != nil {
		return models.Casa{}, err
	}
	if !CanManage(r, c) {
		return models.Casa{}, ErrForbidden
	}
	return c, nil
}

// Current resolves the casa the user is working on. A selection the user
// cannot manage is ignored in favor of the user's first casa.
// Returns ErrNoCasa when there is nothing to fall back to.
func Current(ctx context.Context, db *mongo.Database, r *http.Request) (models.Casa, error) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		return models.Casa{}, ErrForbidden
	}
	store := casastore.New(db)

	if id, ok := authz.SelectedCasaID(r); ok {
		c, err := store.GetByID(ctx, id)
		switch {
		case err == nil && CanManage(r, c):
			return c, nil
		case err != nil && !errors.Is(err, casastore.ErrNotFound):
			return models.Casa{}, err
		}
	}

	owned, err := store.ListByOwner(ctx, uid)
	if err != nil {
		return models.Casa{}, err
	}
	if len(owned) == 0 {
		return models.Casa{}, ErrNoCasa
	}
	return owned[0], nil
}

// CheckMemberAccess fetches the member and its casa, and checks the
// request user can manage that casa.
//
// Returns:
//   - (member, casa, nil) if the user can access the member
//   - memberstore.ErrNotFound if the member is gone
//   - ErrForbidden if it belongs to someone else's casa
func CheckMemberAccess(ctx context.Context, db *mongo.Database, r *http.Request, memberID primitive.ObjectID) (models.Member, models.Casa, error) {
	m, err := memberstore.New(db).GetByID(ctx, memberID)
	if err != nil {
		return models.Member{}, models.Casa{}, err
	}
	c, err := LoadManaged(ctx, db, r, m.CasaID)
	if errors.Is(err, casastore.ErrNotFound) {
		return models.Member{}, models.Casa{}, memberstore.ErrNotFound
	}
	if err != nil {
		return models.Member{}, models.Casa{}, err
	}
	return m, c, nil
}
