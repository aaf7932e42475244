package dashboard

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/casadefe/internal/app/features/errors"
	"github.com/dalemusser/casadefe/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/casadefe/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := NewHandler(db, time.UTC, uierrors.NewErrorLogger(logger), logger)
	// Wednesday.
	h.now = func() time.Time { return time.Date(2024, 5, 8, 21, 0, 0, 0, time.UTC) }
	return h, testutil.NewFixtures(t, db)
}

func TestServeDashboard_Leader(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	c := fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "", "quarta")
	a := fx.CreateMember(ctx, c.ID, "Alfa")
	b := fx.CreateMember(ctx, c.ID, "Beta")
	fx.CreateAttendance(ctx, c.ID, a.ID, "2024-05-01")
	fx.CreateAttendance(ctx, c.ID, a.ID, "2024-05-08")
	fx.CreateAttendance(ctx, c.ID, b.ID, "2024-05-08")
	fx.CreateReport(ctx, c.ID, "2024-05-08", "Boa")
	fx.CreateTestimony(ctx, c.ID, owner.ID, "Deus é fiel")

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.FromUser(owner, "user")))
	rec.AssertStatus(t, http.StatusOK)

	var v dashboardqueries.View
	rec.DecodeJSON(t, &v)
	if v.TotalMembers != 2 || v.TotalMeetings != 2 {
		t.Errorf("totals: got members %d meetings %d, want 2 and 2", v.TotalMembers, v.TotalMeetings)
	}
	if v.PendingReports != 1 || len(v.PendingDates) != 1 || v.PendingDates[0] != "2024-05-01" {
		t.Errorf("pending: got %d %v, want [2024-05-01]", v.PendingReports, v.PendingDates)
	}
	for _, m := range v.Members {
		if m.MemberID == b.ID && (m.Present != 1 || m.Absent != 1) {
			t.Errorf("Beta tally: got present %d absent %d, want 1 and 1", m.Present, m.Absent)
		}
	}
	if len(v.Testimonies) != 1 {
		t.Errorf("testimonies: got %d, want 1", len(v.Testimonies))
	}
}

func TestServeDashboard_NoCasa(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Sem Casa", "nocasa@example.com", "user")
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.FromUser(u, "user")))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeDashboard_AdminOverview(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Ana", "ana@example.com", "user")
	reported := fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "", "terca")
	fx.CreateCasa(ctx, owner.ID, "Ana", "Central", "", "segunda")
	fx.CreateCasa(ctx, owner.ID, "Ana", "Norte", "", "a combinar")
	fx.CreateReport(ctx, reported.ID, "2024-05-07", "Feito")

	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/dashboard", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	var out overview
	rec.DecodeJSON(t, &out)
	if out.TotalCasas != 3 {
		t.Errorf("total_casas: got %d, want 3", out.TotalCasas)
	}
	if out.PendingCasas != 1 || out.UnscheduledCasas != 1 {
		t.Errorf("pending/unscheduled: got %d/%d, want 1/1", out.PendingCasas, out.UnscheduledCasas)
	}
}
