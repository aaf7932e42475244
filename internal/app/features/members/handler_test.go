package members_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/features/members"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newHandler(fx *testutil.Fixtures) *members.Handler {
	logger := zap.NewNop()
	return members.NewHandler(fx.DB(), uierrors.NewErrorLogger(logger), logger)
}

func TestServeList_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	c := fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "")
	fx.CreateMember(ctx, c.ID, "Joao Silva")
	jose := fx.CreateMember(ctx, c.ID, "Jose Souza")
	fx.CreateMember(ctx, c.ID, "Maria Silva")
	if err := memberstore.New(db).SetFlags(ctx, c.ID, jose.ID, true, false); err != nil {
		t.Fatalf("SetFlags: %v", err)
	}
	h := newHandler(fx)
	u := testutil.FromUser(owner, "user")

	tests := []struct {
		name   string
		target string
		status int
		want   int
	}{
		{"all", "/members", http.StatusOK, 3},
		{"by name", "/members?q=silva", http.StatusOK, 2},
		{"accepted", "/members?flag=accepted", http.StatusOK, 1},
		{"reconciled", "/members?flag=reconciled", http.StatusOK, 0},
		{"bad flag", "/members?flag=other", http.StatusUnprocessableEntity, 0},
	}
	for _, tt := range tests {
		rec := testutil.NewRecorder()
		h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, tt.target, u))
		if rec.Code != tt.status {
			t.Errorf("%s: status got %d, want %d", tt.name, rec.Code, tt.status)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}
		var body struct {
			Members []models.Member `json:"members"`
		}
		rec.DecodeJSON(t, &body)
		if len(body.Members) != tt.want {
			t.Errorf("%s: got %d members, want %d", tt.name, len(body.Members), tt.want)
		}
	}
}

func TestServeList_NoCasa(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	u := fx.CreateUser(ctx, "Sem Casa", "sem@example.com", "user")

	rec := testutil.NewRecorder()
	newHandler(fx).ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/members", testutil.FromUser(u, "user")))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestCreateUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	c := fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "")
	h := newHandler(fx)
	u := testutil.FromUser(owner, "user")

	// Missing name is rejected.
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/members", map[string]any{"phone": "1"}), u))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, `"name"`)

	rec = testutil.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/members", map[string]any{
		"name": "  Carla   Dias ", "phone": "(11) 98888-7777", "age": 30,
	}), u))
	rec.AssertStatus(t, http.StatusCreated)
	var created struct {
		models.Member
		PhoneDisplay string `json:"phone_display"`
	}
	rec.DecodeJSON(t, &created)
	if created.Name != "Carla Dias" || created.Phone != "11988887777" || created.CasaID != c.ID {
		t.Errorf("created: got %+v", created.Member)
	}
	if created.PhoneDisplay != "+55 (11) 98888-7777" {
		t.Errorf("phone_display: got %q", created.PhoneDisplay)
	}

	id := created.ID.Hex()
	rec = testutil.NewRecorder()
	req := testutil.WithChiURLParam(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/members/"+id, map[string]any{
		"name": "Carla Dias", "reconciled": true,
	}), u), "id", id)
	h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var updated models.Member
	rec.DecodeJSON(t, &updated)
	if !updated.Reconciled || updated.Age != nil || updated.Phone != "" {
		t.Errorf("updated: got %+v", updated)
	}

	// A stranger cannot touch it.
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/members/"+id, testutil.LeaderUser()), "id", id))
	rec.AssertStatus(t, http.StatusForbidden)

	fx.CreateAttendance(ctx, c.ID, created.ID, "2024-05-01")
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/members/"+id, u), "id", id))
	rec.AssertStatus(t, http.StatusNoContent)

	n, err := db.Collection("attendance").CountDocuments(ctx, bson.M{"member_id": created.ID})
	if err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	if n != 0 {
		t.Errorf("attendance left after member delete: %d", n)
	}
}
