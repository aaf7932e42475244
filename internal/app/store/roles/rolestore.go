// internal/app/store/roles/rolestore.go
package rolestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store maps users to role labels. A user without a row is a plain user.
type Store struct {
	c *mongo.Collection
}

var ErrBadRole = errors.New(`role must be "admin"|"moderator"|"user"`)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_roles")}
}

// Get returns the user's role, or "user" when none is stored.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (string, error) {
	var ur models.UserRole
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&ur)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RoleUser, nil
	}
	if err != nil {
		return "", err
	}
	return ur.Role, nil
}

// IsAdmin reports whether the user holds the admin role.
func (s *Store) IsAdmin(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	role, err := s.Get(ctx, userID)
	return role == models.RoleAdmin, err
}

// Set upserts the user's role.
func (s *Store) Set(ctx context.Context, userID primitive.ObjectID, role string) error {
	if !models.IsValidRole(role) {
		return fmt.Errorf("%w: %q", ErrBadRole, role)
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"role": role},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true))
	return err
}

// EnsureAdmin grants the admin role. It reports whether anything changed,
// so repeated calls are harmless.
func (s *Store) EnsureAdmin(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	is, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return false, err
	}
	if is {
		return false, nil
	}
	return true, s.Set(ctx, userID, models.RoleAdmin)
}

// CountByRole returns how many users hold role.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}
