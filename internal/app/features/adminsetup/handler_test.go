package adminsetup

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	rolestore "github.com/dalemusser/casadefe/internal/app/store/roles"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database, key string) *Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("", "casadefe-test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(db, sm, key, uierrors.NewErrorLogger(logger), logger)
}

func TestHandleClaim(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	tu := testutil.FromUser(u, "user")
	h := newTestHandler(t, db, "chave-secreta")

	tests := []struct {
		name    string
		key     string
		status  int
		changed bool
	}{
		{"wrong key", "outra", http.StatusForbidden, false},
		{"first claim", "chave-secreta", http.StatusOK, true},
		{"second claim", " chave-secreta ", http.StatusOK, false},
	}
	for _, tt := range tests {
		rec := testutil.NewRecorder()
		h.HandleClaim(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/admin-setup", claimInput{Key: tt.key}), tu))
		if rec.Code != tt.status {
			t.Errorf("%s: status got %d, want %d", tt.name, rec.Code, tt.status)
			continue
		}
		if tt.status != http.StatusOK {
			continue
		}
		var body struct {
			Changed bool `json:"changed"`
		}
		rec.DecodeJSON(t, &body)
		if body.Changed != tt.changed {
			t.Errorf("%s: changed got %v, want %v", tt.name, body.Changed, tt.changed)
		}
	}

	is, err := rolestore.New(db).IsAdmin(ctx, u.ID)
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if !is {
		t.Error("user should be admin after the claim")
	}

	rec := testutil.NewRecorder()
	h.ServeStatus(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/admin-setup/status", tu))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"is_admin":true`)
}

func TestHandleClaim_Disabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, "")

	rec := testutil.NewRecorder()
	h.HandleClaim(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/admin-setup", claimInput{Key: ""}), testutil.LeaderUser()))
	rec.AssertStatus(t, http.StatusNotFound)
}
