// Package dashboardqueries assembles the leader dashboard for one casa.
//
// Loading and assembly are split: Load gathers raw rows, Assemble turns
// them into the view without touching the database.
package dashboardqueries

import (
	"context"
	"sort"

	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	contentstore "github.com/dalemusser/casadefe/internal/app/store/content"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"github.com/dalemusser/casadefe/internal/app/store/queries/reportqueries"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Feed sizes shown on the dashboard.
const (
	WordsLimit       = 3
	TestimoniesLimit = 5
	PrayersLimit     = 5
)

// Inputs are the raw rows the dashboard is built from.
type Inputs struct {
	Casa        models.Casa
	Members     []models.Member
	Attendance  []models.Attendance // present rows of the casa's members
	Reports     []models.Report
	Words       []models.PastoralWord
	Testimonies []models.Testimony
	Prayers     []models.PrayerRequest
}

// MemberTally is one member's presence record.
type MemberTally struct {
	MemberID      primitive.ObjectID `json:"member_id"`
	Name          string             `json:"name"`
	Present       int                `json:"present"`
	Absent        int                `json:"absent"`
	AcceptedFaith bool               `json:"accepted_faith"`
	Reconciled    bool               `json:"reconciled"`
}

// View is the dashboard payload.
type View struct {
	Casa models.Casa `json:"casa"`

	TotalMembers      int `json:"total_members"`
	AcceptedMembers   int `json:"accepted_members"`
	ReconciledMembers int `json:"reconciled_members"`
	TotalMeetings     int `json:"total_meetings"`

	PendingReports int      `json:"pending_reports"`
	PendingDates   []string `json:"pending_dates"`

	Members []MemberTally `json:"members"`

	Words       []models.PastoralWord  `json:"pastoral_words"`
	Testimonies []models.Testimony     `json:"testimonies"`
	Prayers     []models.PrayerRequest `json:"prayer_requests"`
}

// Assemble builds the view. A member's absences are the casa's distinct
// meeting dates minus the dates that member was present.
func Assemble(in Inputs) View {
	v := View{
		Casa:         in.Casa,
		TotalMembers: len(in.Members),
		Words:        nonNil(in.Words),
		Testimonies:  nonNil(in.Testimonies),
		Prayers:      nonNil(in.Prayers),
	}

	dates := map[string]struct{}{}
	presentBy := map[primitive.ObjectID]map[string]struct{}{}
	for _, a := range in.Attendance {
		if !a.Present {
			continue
		}
		dates[a.MeetingDate] = struct{}{}
		set := presentBy[a.MemberID]
		if set == nil {
			set = map[string]struct{}{}
			presentBy[a.MemberID] = set
		}
		set[a.MeetingDate] = struct{}{}
	}
	v.TotalMeetings = len(dates)

	v.Members = make([]MemberTally, 0, len(in.Members))
	for _, m := range in.Members {
		if m.AcceptedFaith {
			v.AcceptedMembers++
		}
		if m.Reconciled {
			v.ReconciledMembers++
		}
		present := len(presentBy[m.ID])
		v.Members = append(v.Members, MemberTally{
			MemberID:      m.ID,
			Name:          m.Name,
			Present:       present,
			Absent:        len(dates) - present,
			AcceptedFaith: m.AcceptedFaith,
			Reconciled:    m.Reconciled,
		})
	}

	allDates := make([]string, 0, len(dates))
	for d := range dates {
		allDates = append(allDates, d)
	}
	sort.Strings(allDates)
	var filled []string
	for _, r := range in.Reports {
		if r.Filled() {
			filled = append(filled, r.MeetingDate)
		}
	}
	v.PendingDates = reportqueries.PendingDates(allDates, filled)
	v.PendingReports = len(v.PendingDates)
	return v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Load gathers the inputs for casaID one step at a time: casa, members,
// their attendance, reports, then the feeds.
func Load(ctx context.Context, db *mongo.Database, casaID primitive.ObjectID) (Inputs, error) {
	var in Inputs
	var err error

	if in.Casa, err = casastore.New(db).GetByID(ctx, casaID); err != nil {
		return Inputs{}, err
	}
	if in.Members, err = memberstore.New(db).ListByCasa(ctx, casaID, memberstore.Filter{}); err != nil {
		return Inputs{}, err
	}
	ids := make([]primitive.ObjectID, 0, len(in.Members))
	for _, m := range in.Members {
		ids = append(ids, m.ID)
	}
	if in.Attendance, err = attendancestore.New(db).ListByMembers(ctx, ids); err != nil {
		return Inputs{}, err
	}
	if in.Reports, err = reportstore.New(db).ListByCasa(ctx, casaID); err != nil {
		return Inputs{}, err
	}

	content := contentstore.New(db)
	if in.Words, err = content.ListWords(ctx, WordsLimit); err != nil {
		return Inputs{}, err
	}
	if in.Testimonies, err = content.ListTestimonies(ctx, casaID, TestimoniesLimit); err != nil {
		return Inputs{}, err
	}
	if in.Prayers, err = content.ListPrayers(ctx, casaID, PrayersLimit); err != nil {
		return Inputs{}, err
	}
	return in, nil
}
