package login

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	loginstore "github.com/dalemusser/casadefe/internal/app/store/logins"
	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/indexes"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"github.com/dalemusser/casadefe/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database, perIP int) *Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("", "casadefe-test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(db, sm, metrics.New(), perIP, uierrors.NewErrorLogger(logger), logger)
}

func post(t *testing.T, h http.HandlerFunc, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h(rec, testutil.NewJSONRequest(t, http.MethodPost, target, body))
	return rec
}

func TestHandleLoginPost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateAdmin(ctx, "Ana", "ana@example.com")
	h := newTestHandler(t, db, 0)

	tests := []struct {
		name   string
		body   loginInput
		status int
	}{
		{"missing password", loginInput{Login: "ana@example.com"}, http.StatusUnprocessableEntity},
		{"unknown login", loginInput{Login: "ninguem@example.com", Password: "x"}, http.StatusUnauthorized},
		{"wrong password", loginInput{Login: "ana@example.com", Password: "errada"}, http.StatusUnauthorized},
		{"ok", loginInput{Login: " ANA@example.com ", Password: testutil.TestPassword}, http.StatusOK},
	}
	for _, tt := range tests {
		rec := post(t, h.HandleLoginPost, "/login", tt.body)
		if rec.Code != tt.status {
			t.Errorf("%s: status got %d, want %d", tt.name, rec.Code, tt.status)
		}
		if tt.status == http.StatusOK {
			if rec.Header().Get("Set-Cookie") == "" {
				t.Errorf("%s: expected a session cookie", tt.name)
			}
			var v sessionView
			rec.DecodeJSON(t, &v)
			if !v.Authenticated || !v.IsAdmin || v.UserID != u.ID.Hex() {
				t.Errorf("%s: session got %+v", tt.name, v)
			}
		}
	}

	if got := promtest.ToFloat64(h.Metrics.LoginFailures); got != 2 {
		t.Errorf("login failures: got %v, want 2", got)
	}
	recs, err := loginstore.New(db).Recent(ctx, u.ID, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 || recs[0].Method != "email" {
		t.Errorf("login records: got %+v, want one email sign-in", recs)
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, 2)

	body := loginInput{Login: "ana@example.com", Password: "errada"}
	for i := 0; i < 2; i++ {
		post(t, h.HandleLoginPost, "/login", body).AssertStatus(t, http.StatusUnauthorized)
	}
	post(t, h.HandleLoginPost, "/login", body).AssertStatus(t, http.StatusTooManyRequests)
}

func TestHandleSignup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	h := newTestHandler(t, db, 0)

	tests := []struct {
		name   string
		body   signupInput
		status int
		field  string
	}{
		{"no login", signupInput{FullName: "Ana", Password: "boa-senha-1"}, http.StatusUnprocessableEntity, "email"},
		{"weak password", signupInput{FullName: "Ana", Email: "ana@example.com", Password: "123456"}, http.StatusUnprocessableEntity, "password"},
		{"phone", signupInput{FullName: "Ana", Phone: "(11) 98765-4321", Password: "boa-senha-1"}, http.StatusCreated, ""},
		{"duplicate phone", signupInput{FullName: "Bia", Phone: "11987654321", Password: "boa-senha-1"}, http.StatusUnprocessableEntity, "phone"},
	}
	for _, tt := range tests {
		rec := post(t, h.HandleSignup, "/login/signup", tt.body)
		if rec.Code != tt.status {
			t.Errorf("%s: status got %d, want %d (%s)", tt.name, rec.Code, tt.status, rec.Body.String())
			continue
		}
		if tt.field != "" {
			var body struct {
				Fields map[string]string `json:"fields"`
			}
			rec.DecodeJSON(t, &body)
			if body.Fields[tt.field] == "" {
				t.Errorf("%s: expected a message for %q, got %v", tt.name, tt.field, body.Fields)
			}
		}
	}

	u, err := userstore.New(db).GetByPhone(ctx, "11987654321")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if u.FullName != "Ana" || u.PasswordHash == "" {
		t.Errorf("user: got %+v", u)
	}
}

func TestServeSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, 0)

	rec := testutil.NewRecorder()
	h.ServeSession(rec, testutil.NewJSONRequest(t, http.MethodGet, "/login/session", nil))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"authenticated":false`)

	rec = testutil.NewRecorder()
	h.ServeSession(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/login/session", testutil.LeaderUser()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"authenticated":true`)
}
