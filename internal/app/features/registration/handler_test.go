package registration

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *Handler {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("", "casadefe-test", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return NewHandler(db, sm, metrics.New(), time.Time{}, time.Hour, uierrors.NewErrorLogger(logger), logger)
}

func validPersonal() models.PersonalDraft {
	return models.PersonalDraft{
		LeaderName:     "Ana Lima",
		LeaderDocument: "123.456.789-00",
		LeaderEmail:    "ana@example.com",
		LeaderPhone:    "+55 (11) 98765-4321",
	}
}

func validCasa() models.CasaDraft {
	return models.CasaDraft{
		Campus:            "Central",
		MeetingDays:       []string{"quarta"},
		MeetingTime:       "20:00",
		Facilitator2Name:  "Bia Souza",
		Facilitator2Phone: "11912345678",
		HostName:          "Maria",
		HostPhone:         "11955554444",
		Street:            "Rua A",
		Number:            "10",
		Neighborhood:      "Centro",
		PostalCode:        "01000-000",
		City:              "São Paulo",
	}
}

func postStep(t *testing.T, h *Handler, u testutil.TestUser, step string, body any) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/registration/steps/"+step, body), u)
	req = testutil.WithChiURLParam(req, "step", step)
	rec := testutil.NewRecorder()
	h.HandleStep(rec, req)
	return rec
}

func submit(t *testing.T, h *Handler, u testutil.TestUser) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleSubmit(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/registration/submit", u))
	return rec
}

func countCasas(t *testing.T, db *mongo.Database) int64 {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	n, err := db.Collection("casas").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count casas: %v", err)
	}
	return n
}

func TestHandleStep_InvalidDoesNotAdvance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	u := testutil.LeaderUser()

	rec := postStep(t, h, u, "1", models.PersonalDraft{LeaderName: "Ana"})
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Fields) != 3 {
		t.Errorf("fields: got %v, want 3 entries", body.Fields)
	}
	if body.Fields["leader_name"] != "" {
		t.Errorf("leader_name should be valid, got %q", body.Fields["leader_name"])
	}

	rec = testutil.NewRecorder()
	h.ServeDraft(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/registration", u))
	rec.AssertStatus(t, http.StatusOK)
	var d models.RegistrationDraft
	rec.DecodeJSON(t, &d)
	if d.Step != StepPersonal {
		t.Errorf("step: got %d, want %d", d.Step, StepPersonal)
	}
}

func TestHandleStep_CannotSkip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	rec := postStep(t, h, testutil.LeaderUser(), "2", validCasa())
	rec.AssertStatus(t, http.StatusConflict)
}

func TestSubmit_CreatesCasaAndRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	u := testutil.LeaderUser()

	postStep(t, h, u, "1", validPersonal()).AssertStatus(t, http.StatusOK)
	postStep(t, h, u, "2", validCasa()).AssertStatus(t, http.StatusOK)
	postStep(t, h, u, "3", models.RosterDraft{Members: []models.RosterEntry{
		{Name: "Joao"}, {Name: "Jose", AcceptedFaith: true},
	}}).AssertStatus(t, http.StatusOK)

	rec := submit(t, h, u)
	rec.AssertStatus(t, http.StatusCreated)

	var out submitResponse
	rec.DecodeJSON(t, &out)
	if out.Casa.LeaderPhone != "11987654321" {
		t.Errorf("leader phone: got %q", out.Casa.LeaderPhone)
	}
	if out.Casa.Address != "Rua A, 10 - Centro, São Paulo - 01000-000" {
		t.Errorf("address: got %q", out.Casa.Address)
	}
	if len(out.Members) != 2 {
		t.Errorf("members: got %d, want 2", len(out.Members))
	}
	if got := promtest.ToFloat64(h.Metrics.CasasRegistered); got != 1 {
		t.Errorf("casas_registered_total: got %v, want 1", got)
	}

	// The draft is gone after submit.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	oid := out.Casa.OwnerID
	if _, ok, _ := h.Drafts.Get(ctx, oid); ok {
		t.Error("draft should be cleared after submit")
	}
}

func TestSubmit_AfterCutoffInsertsNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)
	u := testutil.LeaderUser()

	postStep(t, h, u, "1", validPersonal()).AssertStatus(t, http.StatusOK)
	postStep(t, h, u, "2", validCasa()).AssertStatus(t, http.StatusOK)
	postStep(t, h, u, "3", models.RosterDraft{}).AssertStatus(t, http.StatusOK)

	h.Cutoff = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return h.Cutoff.Add(time.Hour) }

	rec := submit(t, h, u)
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertContains(t, "31/03/2025")
	if n := countCasas(t, db); n != 0 {
		t.Errorf("casas inserted after cutoff: %d", n)
	}
}

func TestEdit_ReplacesRosterExactly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana Lima", "ana@example.com", "user")
	u := testutil.FromUser(owner, "user")
	c := fx.CreateCasa(ctx, owner.ID, "Ana Lima", "Central", "")
	a := fx.CreateMember(ctx, c.ID, "Ana")
	b := fx.CreateMember(ctx, c.ID, "Bruno")
	fx.CreateAttendance(ctx, c.ID, a.ID, "2024-05-01")
	fx.CreateAttendance(ctx, c.ID, b.ID, "2024-05-01")

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodPost, "/registration/casas/"+c.ID.Hex()+"/edit", u), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleEdit(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var d models.RegistrationDraft
	rec.DecodeJSON(t, &d)
	if len(d.Roster.Members) != 2 {
		t.Fatalf("edit draft roster: got %d, want 2", len(d.Roster.Members))
	}

	// Fixture casas lack some required wizard fields; fill them in.
	postStep(t, h, u, "1", validPersonal()).AssertStatus(t, http.StatusOK)
	postStep(t, h, u, "2", validCasa()).AssertStatus(t, http.StatusOK)

	aID := a.ID
	postStep(t, h, u, "3", models.RosterDraft{Members: []models.RosterEntry{
		{MemberID: &aID, Name: "Ana Paula"},
		{Name: "Carla"},
	}}).AssertStatus(t, http.StatusOK)

	rec = submit(t, h, u)
	rec.AssertStatus(t, http.StatusOK)

	got, err := memberstore.New(db).ListByCasa(ctx, c.ID, memberstore.Filter{})
	if err != nil {
		t.Fatalf("ListByCasa: %v", err)
	}
	names := map[string]bool{}
	for _, m := range got {
		names[m.Name] = true
		if m.Name == "Ana Paula" && m.ID != a.ID {
			t.Errorf("kept member changed id: got %s, want %s", m.ID.Hex(), a.ID.Hex())
		}
	}
	if len(got) != 2 || !names["Ana Paula"] || !names["Carla"] {
		t.Errorf("roster: got %v, want exactly Ana Paula and Carla", names)
	}

	n, err := db.Collection("attendance").CountDocuments(ctx, bson.M{"member_id": b.ID})
	if err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	if n != 0 {
		t.Errorf("attendance of removed member: got %d, want 0", n)
	}
	if n := countCasas(t, db); n != 1 {
		t.Errorf("casas: got %d, want 1", n)
	}
}

func TestHandleDelete_ForeignCasaForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	c := fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "")

	req := testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodPost, "/", testutil.LeaderUser()), "id", c.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.WithChiURLParam(testutil.NewAuthenticatedRequest(http.MethodPost, "/", testutil.FromUser(owner, "user")), "id", c.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleDelete(rec, req)
	rec.AssertStatus(t, http.StatusNoContent)
	if n := countCasas(t, db); n != 0 {
		t.Errorf("casas after delete: got %d, want 0", n)
	}
}
