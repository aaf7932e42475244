package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// TestPassword is the password every fixture user signs in with.
const TestPassword = "senha-de-teste-123"

// CreateUser creates a user with an email login and a role row.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if email != "" {
		u.Email = &email
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	if role != "" {
		ur := models.UserRole{ID: primitive.NewObjectID(), UserID: u.ID, Role: role, CreatedAt: now}
		if _, err := f.db.Collection("user_roles").InsertOne(ctx, ur); err != nil {
			f.t.Fatalf("failed to create test user role: %v", err)
		}
	}
	return u
}

// CreateAdmin creates a user with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin)
}

// CreateCasa creates a casa owned by ownerID meeting on the given days.
func (f *Fixtures) CreateCasa(ctx context.Context, ownerID primitive.ObjectID, leaderName, campus, network string, days ...string) models.Casa {
	f.t.Helper()

	if len(days) == 0 {
		days = []string{"quarta"}
	}
	now := time.Now().UTC()
	c := models.Casa{
		ID:           primitive.NewObjectID(),
		OwnerID:      ownerID,
		LeaderName:   leaderName,
		LeaderNameCI: text.Fold(leaderName),
		LeaderEmail:  "lider@example.com",
		LeaderPhone:  "11987654321",
		Street:       "Rua das Flores",
		Number:       "10",
		Neighborhood: "Centro",
		City:         "São Paulo",
		PostalCode:   "01000-000",
		Address:      "Rua das Flores, 10 - Centro, São Paulo - 01000-000",
		Campus:       campus,
		Network:      network,
		MeetingDays:  days,
		MeetingTime:  "20:00",
		HostName:     "Anfitrião " + leaderName,
		HostPhone:    "11912345678",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("casas").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test casa: %v", err)
	}
	return c
}

// CreateMember creates a member in casaID.
func (f *Fixtures) CreateMember(ctx context.Context, casaID primitive.ObjectID, name string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:        primitive.NewObjectID(),
		CasaID:    casaID,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateAttendance records memberID present at casaID on date.
func (f *Fixtures) CreateAttendance(ctx context.Context, casaID, memberID primitive.ObjectID, date string) models.Attendance {
	f.t.Helper()

	a := models.Attendance{
		ID:          primitive.NewObjectID(),
		CasaID:      casaID,
		MemberID:    memberID,
		MeetingDate: date,
		Present:     true,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("attendance").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test attendance: %v", err)
	}
	return a
}

// CreateReport creates a report for casaID on date.
func (f *Fixtures) CreateReport(ctx context.Context, casaID primitive.ObjectID, date, notes string) models.Report {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Report{
		ID:          primitive.NewObjectID(),
		CasaID:      casaID,
		MeetingDate: date,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("reports").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}
	return r
}

// CreateTestimony creates a testimony in casaID.
func (f *Fixtures) CreateTestimony(ctx context.Context, casaID, authorID primitive.ObjectID, text string) models.Testimony {
	f.t.Helper()

	tm := models.Testimony{
		ID:          primitive.NewObjectID(),
		CasaID:      casaID,
		AuthorID:    authorID,
		Name:        "Autor",
		Text:        text,
		PublishedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("testimonies").InsertOne(ctx, tm); err != nil {
		f.t.Fatalf("failed to create test testimony: %v", err)
	}
	return tm
}
