package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
// The role comes from user_roles, defaulting to "user".
type Fetcher struct {
	users *mongo.Collection
	roles *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		users: db.Collection("users"),
		roles: db.Collection("user_roles"),
	}
}

// FetchSessionUser returns (nil, nil) when the user no longer exists.
func (f *Fetcher) FetchSessionUser(ctx context.Context, id primitive.ObjectID) (*auth.SessionUser, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{"_id": 1, "full_name": 1, "email": 1, "phone": 1})
	if err := f.users.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	role := models.RoleUser
	var ur models.UserRole
	err := f.roles.FindOne(ctx, bson.M{"user_id": id}).Decode(&ur)
	switch {
	case err == nil:
		role = ur.Role
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, err
	}

	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Login: u.LoginLabel(),
		Role:  role,
	}, nil
}
