// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("member not found")

// Flag filters.
const (
	FlagAccepted   = "accepted"
	FlagReconciled = "reconciled"
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// Filter narrows ListByCasa. Query is a folded substring of the name.
type Filter struct {
	Query string
	Flag  string
}

func (f Filter) apply(m bson.M) {
	if q := text.Fold(strings.TrimSpace(f.Query)); q != "" {
		m["name_ci"] = bson.M{"$regex": regexp.QuoteMeta(q)}
	}
	switch f.Flag {
	case FlagAccepted:
		m["accepted_faith"] = true
	case FlagReconciled:
		m["reconciled"] = true
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Member{}, ErrNotFound
		}
		return models.Member{}, err
	}
	return m, nil
}

// ListByCasa returns the casa's members sorted by name.
func (s *Store) ListByCasa(ctx context.Context, casaID primitive.ObjectID, f Filter) ([]models.Member, error) {
	filter := bson.M{"casa_id": casaID}
	f.apply(filter)
	return s.find(ctx, filter)
}

// ListAll returns every member across casas, sorted by name.
func (s *Store) ListAll(ctx context.Context) ([]models.Member, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Member, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Member{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts one member into casaID.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.NameCI = text.Fold(m.Name)
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// CreateMany inserts ms into casaID, assigning ids. An empty slice is a
// no-op.
func (s *Store) CreateMany(ctx context.Context, casaID primitive.ObjectID, ms []models.Member) ([]models.Member, error) {
	if len(ms) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(ms))
	out := make([]models.Member, 0, len(ms))
	for _, m := range ms {
		m.ID = primitive.NewObjectID()
		m.CasaID = casaID
		m.NameCI = text.Fold(m.Name)
		m.CreatedAt = now
		m.UpdatedAt = now
		docs = append(docs, m)
		out = append(out, m)
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is the edit-dialog payload.
type Update struct {
	Name          string
	Phone         string
	Age           *int
	Address       string
	Notes         string
	AcceptedFaith bool
	Reconciled    bool
}

// Update overwrites the editable fields of member id.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u Update) error {
	set := bson.M{
		"name":           u.Name,
		"name_ci":        text.Fold(u.Name),
		"phone":          u.Phone,
		"address":        u.Address,
		"notes":          u.Notes,
		"accepted_faith": u.AcceptedFaith,
		"reconciled":     u.Reconciled,
		"updated_at":     time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if u.Age != nil {
		set["age"] = *u.Age
	} else {
		update["$unset"] = bson.M{"age": ""}
	}
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFlags updates the faith flags of a member of casaID. A member of
// another casa is not touched and reports ErrNotFound.
func (s *Store) SetFlags(ctx context.Context, casaID, id primitive.ObjectID, accepted, reconciled bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "casa_id": casaID},
		bson.M{"$set": bson.M{
			"accepted_faith": accepted,
			"reconciled":     reconciled,
			"updated_at":     time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a member by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCasa removes every member of a casa.
func (s *Store) DeleteByCasa(ctx context.Context, casaID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"casa_id": casaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByCasa returns the ids of the casa's members.
func (s *Store) IDsByCasa(ctx context.Context, casaID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"casa_id": casaID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// CountByCasa returns the number of members in a casa.
func (s *Store) CountByCasa(ctx context.Context, casaID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"casa_id": casaID})
}

// ReplaceRoster makes the casa's member set exactly roster. Entries whose
// ID names an existing member of the casa are updated in place so their
// attendance history survives; the rest are inserted. Members missing
// from roster are deleted and their ids returned so the caller can remove
// their attendance. Run it inside txn.Run.
func (s *Store) ReplaceRoster(ctx context.Context, casaID primitive.ObjectID, roster []models.Member) (removed []primitive.ObjectID, err error) {
	existing, err := s.IDsByCasa(ctx, casaID)
	if err != nil {
		return nil, err
	}
	keep := make(map[primitive.ObjectID]bool, len(existing))
	for _, id := range existing {
		keep[id] = false
	}

	var inserts []models.Member
	for _, m := range roster {
		if _, ok := keep[m.ID]; ok && !m.ID.IsZero() {
			keep[m.ID] = true
			err := s.Update(ctx, m.ID, Update{
				Name:          m.Name,
				Phone:         m.Phone,
				Age:           m.Age,
				Address:       m.Address,
				Notes:         m.Notes,
				AcceptedFaith: m.AcceptedFaith,
				Reconciled:    m.Reconciled,
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		inserts = append(inserts, m)
	}

	for id, kept := range keep {
		if !kept {
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		if _, err := s.c.DeleteMany(ctx, bson.M{"casa_id": casaID, "_id": bson.M{"$in": removed}}); err != nil {
			return nil, err
		}
	}
	if _, err := s.CreateMany(ctx, casaID, inserts); err != nil {
		return nil, err
	}
	return removed, nil
}
