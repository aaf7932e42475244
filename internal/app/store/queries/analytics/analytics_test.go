package analytics_test

import (
	"reflect"
	"testing"

	"github.com/dalemusser/casadefe/internal/app/store/queries/analytics"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompute(t *testing.T) {
	c1 := models.Casa{ID: primitive.NewObjectID(), Campus: "Central", Network: "Jovens"}
	c2 := models.Casa{ID: primitive.NewObjectID(), Campus: "Central", Network: "Casais"}
	c3 := models.Casa{ID: primitive.NewObjectID(), Campus: "Norte"}

	m1 := models.Member{ID: primitive.NewObjectID(), CasaID: c1.ID, AcceptedFaith: true}
	m2 := models.Member{ID: primitive.NewObjectID(), CasaID: c1.ID, Reconciled: true}
	m3 := models.Member{ID: primitive.NewObjectID(), CasaID: c2.ID, AcceptedFaith: true}
	m4 := models.Member{ID: primitive.NewObjectID(), CasaID: c3.ID}

	att := func(c models.Casa, m models.Member, date string) models.Attendance {
		return models.Attendance{CasaID: c.ID, MemberID: m.ID, MeetingDate: date, Present: true}
	}
	in := analytics.Inputs{
		Casas:   []models.Casa{c1, c2, c3},
		Members: []models.Member{m1, m2, m3, m4},
		Attendance: []models.Attendance{
			// c1: 2 members x 2 dates = 4 possible, 3 present
			att(c1, m1, "2024-05-29"), att(c1, m2, "2024-05-29"), att(c1, m1, "2024-06-05"),
			// c2: 1 member x 1 date = 1 possible, 1 present
			att(c2, m3, "2024-06-05"),
		},
		Reports: []models.Report{{Notes: "a"}, {Notes: "b"}},
	}

	s := analytics.Compute(in)

	if s.TotalCasas != 3 || s.TotalMembers != 4 || s.TotalReports != 2 || s.TotalMeetings != 3 {
		t.Errorf("totals: %+v", s)
	}
	if s.AcceptedPct != 50 || s.ReconciledPct != 25 {
		t.Errorf("pct: accepted=%v reconciled=%v", s.AcceptedPct, s.ReconciledPct)
	}
	if s.AttendanceRate != 80 {
		t.Errorf("AttendanceRate: got %v, want 80", s.AttendanceRate)
	}
	if s.MembersPerCasa != 1.3 {
		t.Errorf("MembersPerCasa: got %v, want 1.3", s.MembersPerCasa)
	}

	wantCampus := []analytics.LabelCount{{Label: "Central", Count: 2}, {Label: "Norte", Count: 1}}
	if !reflect.DeepEqual(s.CasasByCampus, wantCampus) {
		t.Errorf("CasasByCampus: got %v", s.CasasByCampus)
	}
	wantNetwork := []analytics.LabelCount{{Label: "Casais", Count: 1}, {Label: "Jovens", Count: 1}}
	if !reflect.DeepEqual(s.CasasByNetwork, wantNetwork) {
		t.Errorf("CasasByNetwork: got %v", s.CasasByNetwork)
	}
	wantMonths := []analytics.LabelCount{{Label: "2024-05", Count: 2}, {Label: "2024-06", Count: 2}}
	if !reflect.DeepEqual(s.AttendanceByMonth, wantMonths) {
		t.Errorf("AttendanceByMonth: got %v", s.AttendanceByMonth)
	}
}

func TestCompute_Empty(t *testing.T) {
	s := analytics.Compute(analytics.Inputs{})
	if s.AcceptedPct != 0 || s.AttendanceRate != 0 || s.MembersPerCasa != 0 {
		t.Errorf("empty summary should be all zeros: %+v", s)
	}
}
