package profile

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/authutil"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(fx *testutil.Fixtures) *Handler {
	logger := zap.NewNop()
	return NewHandler(fx.DB(), uierrors.NewErrorLogger(logger), logger)
}

func TestServeProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ana Lima", "ana@example.com", "user")
	rec := testutil.NewRecorder()
	newTestHandler(fx).ServeProfile(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/profile", testutil.FromUser(u, "user")))
	rec.AssertStatus(t, http.StatusOK)

	var got profileData
	rec.DecodeJSON(t, &got)
	if got.FullName != "Ana Lima" || got.Email != "ana@example.com" || got.Role != "user" {
		t.Errorf("profile: got %+v", got)
	}
}

func TestHandleUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	h := newTestHandler(fx)
	tu := testutil.FromUser(u, "user")

	tests := []struct {
		name   string
		body   profileInput
		status int
	}{
		{"missing name", profileInput{Email: "ana@example.com"}, http.StatusUnprocessableEntity},
		{"bad email", profileInput{FullName: "Ana", Email: "ana@"}, http.StatusUnprocessableEntity},
		{"no login left", profileInput{FullName: "Ana"}, http.StatusUnprocessableEntity},
		{"phone only", profileInput{FullName: "Ana  Souza", Phone: "+55 (11) 98765-4321"}, http.StatusOK},
	}
	for _, tt := range tests {
		rec := testutil.NewRecorder()
		h.HandleUpdate(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPut, "/profile", tt.body), tu))
		if rec.Code != tt.status {
			t.Errorf("%s: status got %d, want %d (%s)", tt.name, rec.Code, tt.status, rec.Body.String())
		}
	}

	stored, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.FullName != "Ana Souza" {
		t.Errorf("full_name: got %q, want %q", stored.FullName, "Ana Souza")
	}
	if stored.Email != nil {
		t.Errorf("email: got %q, want cleared", *stored.Email)
	}
	if stored.Phone == nil || *stored.Phone != "11987654321" {
		t.Errorf("phone: got %v, want 11987654321", stored.Phone)
	}
}

func TestHandleChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	h := newTestHandler(fx)
	tu := testutil.FromUser(u, "user")

	tests := []struct {
		name   string
		body   passwordInput
		status int
	}{
		{"weak", passwordInput{Current: testutil.TestPassword, New: "123"}, http.StatusUnprocessableEntity},
		{"wrong current", passwordInput{Current: "errada", New: "nova-senha-forte"}, http.StatusUnprocessableEntity},
		{"ok", passwordInput{Current: testutil.TestPassword, New: "nova-senha-forte"}, http.StatusNoContent},
	}
	for _, tt := range tests {
		rec := testutil.NewRecorder()
		h.HandleChangePassword(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/profile/password", tt.body), tu))
		if rec.Code != tt.status {
			t.Errorf("%s: status got %d, want %d", tt.name, rec.Code, tt.status)
		}
	}

	stored, err := userstore.New(db).GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !authutil.CheckPassword("nova-senha-forte", stored.PasswordHash) {
		t.Error("new password should match the stored hash")
	}
}
