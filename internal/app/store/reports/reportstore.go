// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/casadefe/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound     = errors.New("report not found")
	ErrReportExists = errors.New("a report for this date already exists")
	ErrEmptyNotes   = errors.New("report notes are empty")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByCasaDate returns the report row for casaID on date, if any.
func (s *Store) GetByCasaDate(ctx context.Context, casaID primitive.ObjectID, date string) (models.Report, error) {
	return s.findOne(ctx, bson.M{"casa_id": casaID, "meeting_date": date})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, filter).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Report{}, ErrNotFound
		}
		return models.Report{}, err
	}
	return r, nil
}

// ListByCasa returns the casa's reports, newest meeting first.
func (s *Store) ListByCasa(ctx context.Context, casaID primitive.ObjectID) ([]models.Report, error) {
	return s.find(ctx, bson.M{"casa_id": casaID})
}

// ListAll returns every report, newest meeting first.
func (s *Store) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.find(ctx, bson.M{})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "meeting_date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FilledDates returns the dates of casaID that have a report with
// non-blank notes, ascending.
func (s *Store) FilledDates(ctx context.Context, casaID primitive.ObjectID) ([]string, error) {
	rows, err := s.ListByCasa(ctx, casaID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Filled() {
			out = append(out, r.MeetingDate)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Submit files notes for casaID on date. An existing row with blank notes
// is filled; an existing filled row yields ErrReportExists. The caller
// checks that the date has attendance.
func (s *Store) Submit(ctx context.Context, casaID primitive.ObjectID, date, notes string) (models.Report, error) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return models.Report{}, ErrEmptyNotes
	}
	now := time.Now().UTC()

	existing, err := s.GetByCasaDate(ctx, casaID, date)
	switch {
	case err == nil:
		if existing.Filled() {
			return models.Report{}, ErrReportExists
		}
		// Only fill while still blank, so two concurrent submits cannot
		// both win.
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "$or": bson.A{
				bson.M{"notes": ""},
				bson.M{"notes": bson.M{"$exists": false}},
				bson.M{"notes": bson.M{"$regex": `^\s*$`}},
			}},
			bson.M{"$set": bson.M{"notes": notes, "updated_at": now}})
		if err != nil {
			return models.Report{}, err
		}
		if res.MatchedCount == 0 {
			return models.Report{}, ErrReportExists
		}
		existing.Notes = notes
		existing.UpdatedAt = now
		return existing, nil

	case errors.Is(err, ErrNotFound):
		r := models.Report{
			ID:          primitive.NewObjectID(),
			CasaID:      casaID,
			MeetingDate: date,
			Notes:       notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := s.c.InsertOne(ctx, r); err != nil {
			if wafflemongo.IsDup(err) {
				return models.Report{}, ErrReportExists
			}
			return models.Report{}, err
		}
		return r, nil

	default:
		return models.Report{}, err
	}
}

// DeleteByCasa removes all reports of a casa.
func (s *Store) DeleteByCasa(ctx context.Context, casaID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"casa_id": casaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of reports.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
