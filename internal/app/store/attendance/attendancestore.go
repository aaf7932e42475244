// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"sort"
	"time"

	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Present rows are authoritative: a member with no row for a date was
// absent.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// PresentOn returns the ids of members present at casaID on date.
func (s *Store) PresentOn(ctx context.Context, casaID primitive.ObjectID, date string) ([]primitive.ObjectID, error) {
	rows, err := s.find(ctx, bson.M{"casa_id": casaID, "meeting_date": date, "present": true}, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.MemberID)
	}
	return ids, nil
}

// ReplaceDate makes the present set of casaID on date exactly present.
// Run it inside txn.Run so a failed insert leaves the old set.
func (s *Store) ReplaceDate(ctx context.Context, casaID primitive.ObjectID, date string, present []primitive.ObjectID) error {
	if _, err := s.c.DeleteMany(ctx, bson.M{"casa_id": casaID, "meeting_date": date}); err != nil {
		return err
	}
	if len(present) == 0 {
		return nil
	}
	now := time.Now().UTC()
	seen := make(map[primitive.ObjectID]bool, len(present))
	docs := make([]interface{}, 0, len(present))
	for _, id := range present {
		if seen[id] {
			continue
		}
		seen[id] = true
		docs = append(docs, models.Attendance{
			ID:          primitive.NewObjectID(),
			CasaID:      casaID,
			MemberID:    id,
			MeetingDate: date,
			Present:     true,
			CreatedAt:   now,
		})
	}
	_, err := s.c.InsertMany(ctx, docs)
	return err
}

// Dates returns the distinct dates with attendance for casaID, ascending.
func (s *Store) Dates(ctx context.Context, casaID primitive.ObjectID) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "meeting_date", bson.M{"casa_id": casaID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if d, ok := v.(string); ok {
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out, nil
}

// HasDate reports whether casaID has any attendance recorded on date.
func (s *Store) HasDate(ctx context.Context, casaID primitive.ObjectID, date string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"casa_id": casaID, "meeting_date": date},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return err == nil, err
}

// ListByMembers returns present rows for the given members.
func (s *Store) ListByMembers(ctx context.Context, memberIDs []primitive.ObjectID) ([]models.Attendance, error) {
	if len(memberIDs) == 0 {
		return []models.Attendance{}, nil
	}
	return s.find(ctx, bson.M{"member_id": bson.M{"$in": memberIDs}, "present": true}, nil)
}

// ListAll returns every present row. Used by analytics.
func (s *Store) ListAll(ctx context.Context) ([]models.Attendance, error) {
	return s.find(ctx, bson.M{"present": true}, nil)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Attendance, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Attendance{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByMembers removes attendance of the given members.
func (s *Store) DeleteByMembers(ctx context.Context, memberIDs []primitive.ObjectID) (int64, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"member_id": bson.M{"$in": memberIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByCasa removes all attendance of a casa.
func (s *Store) DeleteByCasa(ctx context.Context, casaID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"casa_id": casaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
