// internal/app/store/drafts/draftstore.go
package draftstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps one registration draft per user. The TTL index removes
// expired drafts eventually; reads also ignore them, since the TTL monitor
// only runs about once a minute.
type Store struct {
	c   *mongo.Collection
	ttl time.Duration
}

// DefaultTTL applies when New is given a non-positive ttl.
const DefaultTTL = 24 * time.Hour

func New(db *mongo.Database, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{c: db.Collection("registration_drafts"), ttl: ttl}
}

// Get returns the user's live draft. ok is false when there is none.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (d models.RegistrationDraft, ok bool, err error) {
	err = s.c.FindOne(ctx, bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.RegistrationDraft{}, false, nil
	}
	if err != nil {
		return models.RegistrationDraft{}, false, err
	}
	return d, true, nil
}

// Save upserts d for d.UserID and pushes its expiry ttl into the future.
func (s *Store) Save(ctx context.Context, d models.RegistrationDraft) (models.RegistrationDraft, error) {
	now := time.Now().UTC()
	d.UpdatedAt = now
	d.ExpiresAt = now.Add(s.ttl)

	set := bson.M{
		"step":       d.Step,
		"personal":   d.Personal,
		"casa":       d.Casa,
		"roster":     d.Roster,
		"updated_at": d.UpdatedAt,
		"expires_at": d.ExpiresAt,
	}
	update := bson.M{"$set": set, "$setOnInsert": bson.M{"_id": primitive.NewObjectID()}}
	if d.EditingCasaID != nil {
		set["editing_casa_id"] = *d.EditingCasaID
	} else {
		update["$unset"] = bson.M{"editing_casa_id": ""}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.RegistrationDraft
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"user_id": d.UserID}, update, opts).Decode(&out); err != nil {
		return models.RegistrationDraft{}, err
	}
	return out, nil
}

// Delete discards the user's draft. Deleting a missing draft is not an
// error.
func (s *Store) Delete(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}

// PurgeExpired deletes drafts whose expiry is before now and returns how
// many were removed.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
