// internal/app/store/content/contentstore.go
package contentstore

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

// Store covers the three feed collections: global pastoral words and the
// per-casa testimonies and prayer requests.
type Store struct {
	words       *mongo.Collection
	testimonies *mongo.Collection
	prayers     *mongo.Collection
}

var ErrNotFound = errors.New("content not found")

func New(db *mongo.Database) *Store {
	return &Store{
		words:       db.Collection("pastoral_words"),
		testimonies: db.Collection("testimonies"),
		prayers:     db.Collection("prayer_requests"),
	}
}

func newest(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func deleteOne(ctx context.Context, c *mongo.Collection, filter bson.M) error {
	res, err := c.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ownedBy scopes a delete to authorID unless it is the nil id (admins).
func ownedBy(id, authorID primitive.ObjectID) bson.M {
	f := bson.M{"_id": id}
	if !authorID.IsZero() {
		f["author_id"] = authorID
	}
	return f
}

/* ---------------------------- pastoral words ---------------------------- */

// ListWords returns the latest pastoral words; limit <= 0 means all.
func (s *Store) ListWords(ctx context.Context, limit int64) ([]models.PastoralWord, error) {
	return findAll[models.PastoralWord](ctx, s.words, bson.M{}, newest(limit))
}

func (s *Store) GetWord(ctx context.Context, id primitive.ObjectID) (models.PastoralWord, error) {
	var w models.PastoralWord
	if err := s.words.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.PastoralWord{}, ErrNotFound
		}
		return models.PastoralWord{}, err
	}
	return w, nil
}

func (s *Store) CreateWord(ctx context.Context, w models.PastoralWord) (models.PastoralWord, error) {
	w.ID = primitive.NewObjectID()
	if w.PublishedAt.IsZero() {
		w.PublishedAt = time.Now().UTC()
	}
	if _, err := s.words.InsertOne(ctx, w); err != nil {
		return models.PastoralWord{}, err
	}
	return w, nil
}

func (s *Store) DeleteWord(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.words, bson.M{"_id": id})
}

/* ------------------------------ testimonies ----------------------------- */

// ListTestimonies returns the casa's testimonies, newest first.
func (s *Store) ListTestimonies(ctx context.Context, casaID primitive.ObjectID, limit int64) ([]models.Testimony, error) {
	return findAll[models.Testimony](ctx, s.testimonies, bson.M{"casa_id": casaID}, newest(limit))
}

func (s *Store) CreateTestimony(ctx context.Context, t models.Testimony) (models.Testimony, error) {
	t.ID = primitive.NewObjectID()
	t.PublishedAt = time.Now().UTC()
	if _, err := s.testimonies.InsertOne(ctx, t); err != nil {
		return models.Testimony{}, err
	}
	return t, nil
}

// DeleteTestimony removes a testimony written by authorID. A nil
// authorID deletes regardless of author.
func (s *Store) DeleteTestimony(ctx context.Context, id, authorID primitive.ObjectID) error {
	return deleteOne(ctx, s.testimonies, ownedBy(id, authorID))
}

/* ---------------------------- prayer requests --------------------------- */

// ListPrayers returns the casa's prayer requests, newest first.
func (s *Store) ListPrayers(ctx context.Context, casaID primitive.ObjectID, limit int64) ([]models.PrayerRequest, error) {
	return findAll[models.PrayerRequest](ctx, s.prayers, bson.M{"casa_id": casaID}, newest(limit))
}

func (s *Store) CreatePrayer(ctx context.Context, p models.PrayerRequest) (models.PrayerRequest, error) {
	p.ID = primitive.NewObjectID()
	p.PublishedAt = time.Now().UTC()
	if _, err := s.prayers.InsertOne(ctx, p); err != nil {
		return models.PrayerRequest{}, err
	}
	return p, nil
}

// DeletePrayer removes a prayer request written by authorID. A nil
// authorID deletes regardless of author.
func (s *Store) DeletePrayer(ctx context.Context, id, authorID primitive.ObjectID) error {
	return deleteOne(ctx, s.prayers, ownedBy(id, authorID))
}

// DeleteByCasa removes the casa's testimonies and prayer requests.
func (s *Store) DeleteByCasa(ctx context.Context, casaID primitive.ObjectID) error {
	if _, err := s.testimonies.DeleteMany(ctx, bson.M{"casa_id": casaID}); err != nil {
		return err
	}
	_, err := s.prayers.DeleteMany(ctx, bson.M{"casa_id": casaID})
	return err
}
