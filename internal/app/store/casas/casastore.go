// internal/app/store/casas/casastore.go
package casastore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/casadefe/internal/app/system/phone"
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

var ErrNotFound = errors.New("casa not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("casas")}
}

// ComposeAddress builds the single-line address
// "street, number - neighborhood, city - postal code (landmark)",
// skipping empty parts.
func ComposeAddress(street, number, neighborhood, city, postalCode, landmark string) string {
	join := func(sep string, parts ...string) string {
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return strings.Join(out, sep)
	}
	addr := join(" - ",
		join(", ", street, number),
		join(", ", neighborhood, city),
		postalCode,
	)
	if lm := strings.TrimSpace(landmark); lm != "" {
		if addr == "" {
			return "(" + lm + ")"
		}
		addr += " (" + lm + ")"
	}
	return addr
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Casa, error) {
	var c models.Casa
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Casa{}, ErrNotFound
		}
		return models.Casa{}, err
	}
	return c, nil
}

// ListByOwner returns the owner's casas, oldest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Casa, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{"owner_id": ownerID}, opts)
}

// ListAll returns every casa sorted by leader name.
func (s *Store) ListAll(ctx context.Context) ([]models.Casa, error) {
	opts := options.Find().SetSort(bson.D{{Key: "leader_name_ci", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, bson.M{}, opts)
}

// ListByIDs returns the casas with the given ids, in no particular order.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Casa, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Casa, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Casa
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts c with a new id, derived fields and timestamps.
func (s *Store) Create(ctx context.Context, c models.Casa) (models.Casa, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	prepare(&c)
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Casa{}, err
	}
	return c, nil
}

// Replace overwrites every editable field of the stored casa with c,
// keeping its owner and creation time.
func (s *Store) Replace(ctx context.Context, c models.Casa) error {
	prepare(&c)
	set := bson.M{
		"leader_name":           c.LeaderName,
		"leader_name_ci":        c.LeaderNameCI,
		"leader_document":       c.LeaderDocument,
		"leader_email":          c.LeaderEmail,
		"leader_phone":          c.LeaderPhone,
		"leader_birth_date":     c.LeaderBirthDate,
		"address":               c.Address,
		"street":                c.Street,
		"number":                c.Number,
		"neighborhood":          c.Neighborhood,
		"postal_code":           c.PostalCode,
		"city":                  c.City,
		"landmark":              c.Landmark,
		"campus":                c.Campus,
		"network":               c.Network,
		"meeting_days":          c.MeetingDays,
		"meeting_time":          c.MeetingTime,
		"generation":            c.Generation,
		"facilitator2_name":     c.Facilitator2Name,
		"facilitator2_phone":    c.Facilitator2Phone,
		"facilitator2_email":    c.Facilitator2Email,
		"host_name":             c.HostName,
		"host_phone":            c.HostPhone,
		"facilitator1_baptized": c.Facilitator1Baptized,
		"facilitator2_baptized": c.Facilitator2Baptized,
		"updated_at":            time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, c.ID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Patch holds the fields an owner may change after registration.
// Nil fields are left alone.
type Patch struct {
	MeetingDays       *[]string `json:"meeting_days" validate:"omitempty,min=1,dive,weekday" label:"Dia da reunião"`
	MeetingTime       *string   `json:"meeting_time" validate:"omitempty,datetime=15:04" label:"Horário"`
	Generation        *string   `json:"generation"`
	HostName          *string   `json:"host_name" validate:"omitempty,max=200" label:"Nome do anfitrião"`
	HostPhone         *string   `json:"host_phone" validate:"omitempty,phone" label:"Telefone do anfitrião"`
	Facilitator2Name  *string   `json:"facilitator2_name" validate:"omitempty,max=200" label:"Nome do facilitador 2"`
	Facilitator2Phone *string   `json:"facilitator2_phone" validate:"omitempty,phone" label:"Telefone do facilitador 2"`
	Facilitator2Email *string   `json:"facilitator2_email" validate:"omitempty,email" label:"E-mail do facilitador 2"`
	Street            *string   `json:"street"`
	Number            *string   `json:"number"`
	Neighborhood      *string   `json:"neighborhood"`
	PostalCode        *string   `json:"postal_code"`
	City              *string   `json:"city"`
	Landmark          *string   `json:"landmark"`
}

// Apply returns c with the patch applied and the address recomposed.
func (p Patch) Apply(c models.Casa) models.Casa {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setPhone := func(dst *string, v *string) {
		if v != nil {
			*dst = phone.Digits(*v)
		}
	}
	if p.MeetingDays != nil {
		days := make([]string, 0, len(*p.MeetingDays))
		for _, d := range *p.MeetingDays {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				days = append(days, d)
			}
		}
		c.MeetingDays = days
	}
	set(&c.MeetingTime, p.MeetingTime)
	set(&c.Generation, p.Generation)
	set(&c.HostName, p.HostName)
	setPhone(&c.HostPhone, p.HostPhone)
	set(&c.Facilitator2Name, p.Facilitator2Name)
	setPhone(&c.Facilitator2Phone, p.Facilitator2Phone)
	set(&c.Facilitator2Email, p.Facilitator2Email)
	set(&c.Street, p.Street)
	set(&c.Number, p.Number)
	set(&c.Neighborhood, p.Neighborhood)
	set(&c.PostalCode, p.PostalCode)
	set(&c.City, p.City)
	set(&c.Landmark, p.Landmark)
	prepare(&c)
	return c
}

// Delete removes a casa by ID. Returns the number of documents deleted (0 or 1).
// Dependent rows are removed by the caller; see features/casas.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of casas.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func prepare(c *models.Casa) {
	c.LeaderNameCI = text.Fold(c.LeaderName)
	c.Address = ComposeAddress(c.Street, c.Number, c.Neighborhood, c.City, c.PostalCode, c.Landmark)
	if c.MeetingDays == nil {
		c.MeetingDays = []string{}
	}
}
