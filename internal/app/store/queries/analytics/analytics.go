// Package analytics computes the admin console's aggregate figures.
package analytics

import (
	"context"
	"math"
	"sort"

	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Inputs are the rows the figures are computed from.
type Inputs struct {
	Casas      []models.Casa
	Members    []models.Member
	Attendance []models.Attendance
	Reports    []models.Report
}

// LabelCount is one bar of a breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the analytics payload. Percentages are 0..100 with one
// decimal.
type Summary struct {
	TotalCasas      int `json:"total_casas"`
	TotalMembers    int `json:"total_members"`
	TotalReports    int `json:"total_reports"`
	TotalMeetings   int `json:"total_meetings"`
	AcceptedCount   int `json:"accepted_count"`
	ReconciledCount int `json:"reconciled_count"`

	AcceptedPct    float64 `json:"accepted_pct"`
	ReconciledPct  float64 `json:"reconciled_pct"`
	AttendanceRate float64 `json:"attendance_rate"`
	MembersPerCasa float64 `json:"members_per_casa"`

	CasasByCampus     []LabelCount `json:"casas_by_campus"`
	CasasByNetwork    []LabelCount `json:"casas_by_network"`
	AttendanceByMonth []LabelCount `json:"attendance_by_month"`
}

// Compute derives the summary.
//
// The attendance rate is present rows divided by, per casa, its member
// count times its distinct meeting dates.
func Compute(in Inputs) Summary {
	s := Summary{
		TotalCasas:   len(in.Casas),
		TotalMembers: len(in.Members),
		TotalReports: len(in.Reports),
	}

	membersPerCasa := map[primitive.ObjectID]int{}
	for _, m := range in.Members {
		membersPerCasa[m.CasaID]++
		if m.AcceptedFaith {
			s.AcceptedCount++
		}
		if m.Reconciled {
			s.ReconciledCount++
		}
	}
	s.AcceptedPct = pct(s.AcceptedCount, s.TotalMembers)
	s.ReconciledPct = pct(s.ReconciledCount, s.TotalMembers)
	if s.TotalCasas > 0 {
		s.MembersPerCasa = round1(float64(s.TotalMembers) / float64(s.TotalCasas))
	}

	campus := map[string]int{}
	network := map[string]int{}
	for _, c := range in.Casas {
		campus[labelOr(c.Campus)]++
		if c.Network != "" {
			network[c.Network]++
		}
	}
	s.CasasByCampus = sorted(campus, false)
	s.CasasByNetwork = sorted(network, false)

	datesPerCasa := map[primitive.ObjectID]map[string]struct{}{}
	months := map[string]int{}
	present := 0
	for _, a := range in.Attendance {
		if !a.Present {
			continue
		}
		present++
		set := datesPerCasa[a.CasaID]
		if set == nil {
			set = map[string]struct{}{}
			datesPerCasa[a.CasaID] = set
		}
		set[a.MeetingDate] = struct{}{}
		if len(a.MeetingDate) >= 7 {
			months[a.MeetingDate[:7]]++
		}
	}
	possible := 0
	for casaID, dates := range datesPerCasa {
		s.TotalMeetings += len(dates)
		possible += len(dates) * membersPerCasa[casaID]
	}
	s.AttendanceRate = pct(present, possible)
	if s.AttendanceRate > 100 {
		// Rows of members deleted outside the roster flow.
		s.AttendanceRate = 100
	}
	s.AttendanceByMonth = sorted(months, true)
	return s
}

func labelOr(s string) string {
	if s == "" {
		return "(sem campus)"
	}
	return s
}

func pct(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round1(float64(n) * 100 / float64(total))
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

// sorted orders by label when byLabel is set, otherwise by count
// descending then label.
func sorted(m map[string]int, byLabel bool) []LabelCount {
	out := make([]LabelCount, 0, len(m))
	for k, v := range m {
		out = append(out, LabelCount{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !byLabel && out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Load reads every casa, member, present row and report.
func Load(ctx context.Context, db *mongo.Database) (Inputs, error) {
	var in Inputs
	var err error
	if in.Casas, err = casastore.New(db).ListAll(ctx); err != nil {
		return Inputs{}, err
	}
	if in.Members, err = memberstore.New(db).ListAll(ctx); err != nil {
		return Inputs{}, err
	}
	if in.Attendance, err = attendancestore.New(db).ListAll(ctx); err != nil {
		return Inputs{}, err
	}
	if in.Reports, err = reportstore.New(db).ListAll(ctx); err != nil {
		return Inputs{}, err
	}
	return in, nil
}
