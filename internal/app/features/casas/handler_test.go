package casas_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/casadefe/internal/app/features/casas"
	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *casas.Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("", "casadefe-test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return casas.NewHandler(db, sm, uierrors.NewErrorLogger(logger), logger)
}

type setup struct {
	db    *mongo.Database
	h     *casas.Handler
	owner models.User
	user  testutil.TestUser
	first models.Casa
	other models.Casa
}

func newSetup(t *testing.T) setup {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana Lima", "ana@example.com", "user")
	first := fx.CreateCasa(ctx, owner.ID, "Ana Lima", "Central", "")
	other := fx.CreateCasa(ctx, owner.ID, "Ana Lima", "Norte", "")
	fx.CreateMember(ctx, first.ID, "Joao")
	fx.CreateMember(ctx, first.ID, "Jose")
	return setup{db: db, h: newHandler(t, db), owner: owner, user: testutil.FromUser(owner, "user"), first: first, other: other}
}

func TestServeList_CountsAndSelection(t *testing.T) {
	s := newSetup(t)

	rec := testutil.NewRecorder()
	s.h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/casas", s.user.WithCasa(s.other.ID)))
	rec.AssertStatus(t, http.StatusOK)

	var body struct {
		Casas []struct {
			ID          string `json:"id"`
			MemberCount int64  `json:"member_count"`
			Selected    bool   `json:"selected"`
		} `json:"casas"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Casas) != 2 {
		t.Fatalf("casas: got %d, want 2", len(body.Casas))
	}
	for _, c := range body.Casas {
		switch c.ID {
		case s.first.ID.Hex():
			if c.MemberCount != 2 || c.Selected {
				t.Errorf("first casa: got count %d selected %v", c.MemberCount, c.Selected)
			}
		case s.other.ID.Hex():
			if c.MemberCount != 0 || !c.Selected {
				t.Errorf("other casa: got count %d selected %v", c.MemberCount, c.Selected)
			}
		}
	}
}

func TestHandleSelect_ForeignFallsBackToFirst(t *testing.T) {
	s := newSetup(t)
	fx := testutil.NewFixtures(t, s.db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	stranger := fx.CreateUser(ctx, "Bia", "bia@example.com", "user")
	foreign := fx.CreateCasa(ctx, stranger.ID, "Bia", "Sul", "")

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"own casa", s.other.ID.Hex(), s.other.ID.Hex()},
		{"foreign casa", foreign.ID.Hex(), s.first.ID.Hex()},
		{"garbage id", "nope", s.first.ID.Hex()},
	}
	for _, tt := range tests {
		req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/casas/select", map[string]string{"casa_id": tt.id}), s.user)
		rec := testutil.NewRecorder()
		s.h.HandleSelect(rec, req)
		rec.AssertStatus(t, http.StatusOK)

		var got models.Casa
		rec.DecodeJSON(t, &got)
		if got.ID.Hex() != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got.ID.Hex(), tt.want)
		}
		if cookie := rec.Header().Get("Set-Cookie"); !strings.Contains(cookie, "casadefe-test=") {
			t.Errorf("%s: session cookie not written", tt.name)
		}
	}
}

func TestHandleUpdate(t *testing.T) {
	s := newSetup(t)

	bad := map[string]any{"meeting_days": []string{"someday"}, "host_phone": "12"}
	req := testutil.WithChiURLParam(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPatch, "/", bad), s.user), "id", s.first.ID.Hex())
	rec := testutil.NewRecorder()
	s.h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "host_phone")

	good := map[string]any{"meeting_days": []string{"Sábado"}, "host_phone": "+55 (81) 99999-0000", "number": "42"}
	req = testutil.WithChiURLParam(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPatch, "/", good), s.user), "id", s.first.ID.Hex())
	rec = testutil.NewRecorder()
	s.h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := casastore.New(s.db).GetByID(ctx, s.first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.HostPhone != "81999990000" {
		t.Errorf("HostPhone: got %q", got.HostPhone)
	}
	if len(got.MeetingDays) != 1 || got.MeetingDays[0] != "sábado" {
		t.Errorf("MeetingDays: got %v", got.MeetingDays)
	}
	if got.Number != "42" {
		t.Errorf("Number: got %q", got.Number)
	}
}

func TestHandleUpdate_Stranger(t *testing.T) {
	s := newSetup(t)
	req := testutil.WithChiURLParam(testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPatch, "/", map[string]any{}), testutil.LeaderUser()), "id", s.first.ID.Hex())
	rec := testutil.NewRecorder()
	s.h.HandleUpdate(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestServeWhatsAppAndQR(t *testing.T) {
	s := newSetup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := s.first
	noPhone := s.other
	noPhone.LeaderPhone = ""
	if err := casastore.New(s.db).Replace(ctx, noPhone); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/?text=Ol%C3%A1%20l%C3%ADder", s.user), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	s.h.ServeWhatsApp(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "https://wa.me/5511987654321?text=Ol%C3%A1%20l%C3%ADder")

	req = testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/qr.png?size=128", s.user), "id", c.ID.Hex())
	rec = testutil.NewRecorder()
	s.h.ServeQR(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("body is not a PNG")
	}

	req = testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodGet, "/", s.user), "id", s.other.ID.Hex())
	rec = testutil.NewRecorder()
	s.h.ServeWhatsApp(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete(t *testing.T) {
	s := newSetup(t)
	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodDelete, "/", s.user.WithCasa(s.first.ID)), "id", s.first.ID.Hex())
	rec := testutil.NewRecorder()
	s.h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := casastore.New(s.db).GetByID(ctx, s.first.ID); err != casastore.ErrNotFound {
		t.Errorf("GetByID after delete: got %v, want ErrNotFound", err)
	}
}
