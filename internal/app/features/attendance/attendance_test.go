package attendance

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestBuildSheet(t *testing.T) {
	a := models.Member{ID: primitive.NewObjectID(), Name: "A"}
	b := models.Member{ID: primitive.NewObjectID(), Name: "B", Reconciled: true}
	got := buildSheet([]models.Member{a, b}, []primitive.ObjectID{b.ID, primitive.NewObjectID()})
	if len(got) != 2 {
		t.Fatalf("len: got %d, want 2", len(got))
	}
	if got[0].Present || !got[1].Present || !got[1].Reconciled {
		t.Errorf("sheet: got %+v", got)
	}
}

type attendanceFixture struct {
	h       *Handler
	user    testutil.TestUser
	casa    models.Casa
	a, b, c models.Member
}

func newFixture(t *testing.T) attendanceFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	c := fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "")
	logger := zap.NewNop()
	h := NewHandler(db, metrics.New(), time.UTC, uierrors.NewErrorLogger(logger), logger)
	h.now = func() time.Time { return time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC) }
	return attendanceFixture{
		h:    h,
		user: testutil.FromUser(owner, "user"),
		casa: c,
		a:    fx.CreateMember(ctx, c.ID, "Alfa"),
		b:    fx.CreateMember(ctx, c.ID, "Beta"),
		c:    fx.CreateMember(ctx, c.ID, "Gama"),
	}
}

func (f attendanceFixture) save(t *testing.T, body saveRequest) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	f.h.HandleSave(rec, testutil.WithUser(testutil.NewJSONRequest(t, http.MethodPost, "/attendance", body), f.user))
	return rec
}

func (f attendanceFixture) sheet(t *testing.T, date string) sheetResponse {
	t.Helper()
	rec := testutil.NewRecorder()
	f.h.ServeSheet(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance?date="+date, f.user))
	rec.AssertStatus(t, http.StatusOK)
	var out sheetResponse
	rec.DecodeJSON(t, &out)
	return out
}

func presentSet(entries []Entry) map[primitive.ObjectID]bool {
	out := map[primitive.ObjectID]bool{}
	for _, e := range entries {
		if e.Present {
			out[e.MemberID] = true
		}
	}
	return out
}

func TestSave_ReloadShowsExactlySavedSet(t *testing.T) {
	f := newFixture(t)
	const date = "2024-05-01"

	// First pass marks everyone, the second only A and C.
	f.save(t, saveRequest{Date: date, Entries: []Entry{
		{MemberID: f.a.ID, Present: true}, {MemberID: f.b.ID, Present: true}, {MemberID: f.c.ID, Present: true},
	}}).AssertStatus(t, http.StatusOK)

	rec := f.save(t, saveRequest{Date: date, Entries: []Entry{
		{MemberID: f.a.ID, Present: true}, {MemberID: f.b.ID, Present: false}, {MemberID: f.c.ID, Present: true},
	}})
	rec.AssertStatus(t, http.StatusOK)
	var out saveResponse
	rec.DecodeJSON(t, &out)
	if out.Present != 2 || out.Absent != 1 {
		t.Errorf("counts: got present %d absent %d, want 2 and 1", out.Present, out.Absent)
	}
	if out.ReportURL != "/reports/new?date=2024-05-01" {
		t.Errorf("report_url: got %q", out.ReportURL)
	}

	got := presentSet(f.sheet(t, date).Entries)
	if len(got) != 2 || !got[f.a.ID] || !got[f.c.ID] || got[f.b.ID] {
		t.Errorf("reloaded present set: got %v, want exactly A and C", got)
	}

	// Other dates are untouched.
	if other := presentSet(f.sheet(t, "2024-05-08").Entries); len(other) != 0 {
		t.Errorf("other date present set: got %v, want empty", other)
	}
}

func TestSave_UpdatesChangedFlags(t *testing.T) {
	f := newFixture(t)
	f.save(t, saveRequest{Date: "2024-05-01", Entries: []Entry{
		{MemberID: f.a.ID, Present: true, AcceptedFaith: true},
		{MemberID: f.b.ID, Present: true},
	}}).AssertStatus(t, http.StatusOK)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := memberstore.New(f.h.DB).GetByID(ctx, f.a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.AcceptedFaith {
		t.Error("accepted_faith should be saved")
	}
}

func TestSave_Rejects(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		body saveRequest
	}{
		{"bad date", saveRequest{Date: "01/05/2024"}},
		{"foreign member", saveRequest{Date: "2024-05-01", Entries: []Entry{{MemberID: primitive.NewObjectID(), Present: true}}}},
	}
	for _, tt := range tests {
		rec := f.save(t, tt.body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status got %d, want %d", tt.name, rec.Code, http.StatusUnprocessableEntity)
		}
	}
}

func TestServeDates(t *testing.T) {
	f := newFixture(t)
	for _, d := range []string{"2024-05-08", "2024-05-01"} {
		f.save(t, saveRequest{Date: d, Entries: []Entry{{MemberID: f.a.ID, Present: true}}}).AssertStatus(t, http.StatusOK)
	}

	rec := testutil.NewRecorder()
	f.h.ServeDates(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance/dates", f.user))
	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Dates []string `json:"dates"`
	}
	rec.DecodeJSON(t, &body)
	if len(body.Dates) != 2 || body.Dates[0] != "2024-05-01" || body.Dates[1] != "2024-05-08" {
		t.Errorf("dates: got %v", body.Dates)
	}
}

func TestServeSheet_DefaultsToToday(t *testing.T) {
	f := newFixture(t)
	rec := testutil.NewRecorder()
	f.h.ServeSheet(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/attendance", f.user))
	rec.AssertStatus(t, http.StatusOK)
	var out sheetResponse
	rec.DecodeJSON(t, &out)
	if out.Date != "2024-05-08" {
		t.Errorf("date: got %q, want 2024-05-08", out.Date)
	}
	if len(out.Entries) != 3 || out.Recorded {
		t.Errorf("sheet: got %d entries recorded=%v", len(out.Entries), out.Recorded)
	}
}
