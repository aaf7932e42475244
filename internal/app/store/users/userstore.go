// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	ErrDuplicatePhone = errors.New("a user with this phone already exists")
	ErrNoLogin        = errors.New("user needs an email or a phone")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) GetByPhone(ctx context.Context, p string) (models.User, error) {
	return s.findOne(ctx, bson.M{"phone": phone.Digits(p)})
}

// GetByLogin looks the user up by email when login contains "@", by
// phone digits otherwise.
func (s *Store) GetByLogin(ctx context.Context, login string) (models.User, error) {
	if IsEmailLogin(login) {
		return s.GetByEmail(ctx, login)
	}
	return s.GetByPhone(ctx, login)
}

// IsEmailLogin reports whether login is an email rather than a phone.
func IsEmailLogin(login string) bool {
	return strings.Contains(login, "@")
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// normalizeLogins lowercases the email, reduces the phone to digits and
// drops either when blank.
func normalizeLogins(email, ph *string) (*string, *string) {
	var e, p *string
	if email != nil {
		if v := normalize.Email(*email); v != "" {
			e = &v
		}
	}
	if ph != nil {
		if v := phone.Digits(*ph); v != "" {
			p = &v
		}
	}
	return e, p
}

// dupErr maps a duplicate key error to the login it collided on.
func dupErr(err error) error {
	if strings.Contains(err.Error(), "phone") {
		return ErrDuplicatePhone
	}
	return ErrDuplicateEmail
}

// Create inserts a new user. PasswordHash must already be set.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.Email, u.Phone = normalizeLogins(u.Email, u.Phone)
	if u.Email == nil && u.Phone == nil {
		return models.User{}, ErrNoLogin
	}
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, dupErr(err)
		}
		return models.User{}, err
	}
	return u, nil
}

// UpdateProfile changes name and logins. Passing nil for email or phone
// clears it, but at least one must remain.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName string, email, ph *string) error {
	email, ph = normalizeLogins(email, ph)
	if email == nil && ph == nil {
		return ErrNoLogin
	}
	name := normalize.Name(fullName)
	set := bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"updated_at":   time.Now().UTC(),
	}
	unset := bson.M{}
	if email != nil {
		set["email"] = *email
	} else {
		unset["email"] = ""
	}
	if ph != nil {
		set["phone"] = *ph
	} else {
		unset["phone"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return dupErr(err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPasswordHash replaces the stored bcrypt hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLogin records a successful sign-in.
func (s *Store) TouchLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": time.Now().UTC()}})
	return err
}

// Count returns the number of users.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
