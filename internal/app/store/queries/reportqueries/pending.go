// Package reportqueries provides read-only queries about which meetings
// still lack a report.
package reportqueries

import (
	"context"
	"errors"
	"sort"
	"time"

	attendancestore "github.com/dalemusser/casadefe/internal/app/store/attendance"
	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	reportstore "github.com/dalemusser/casadefe/internal/app/store/reports"
	"github.com/dalemusser/casadefe/internal/app/system/meetings"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PendingDates returns the attendance dates that have no filled report,
// ascending and without duplicates.
func PendingDates(attendanceDates, filledDates []string) []string {
	filled := make(map[string]struct{}, len(filledDates))
	for _, d := range filledDates {
		filled[d] = struct{}{}
	}
	seen := make(map[string]struct{}, len(attendanceDates))
	out := []string{}
	for _, d := range attendanceDates {
		if _, ok := filled[d]; ok {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// LoadPending returns the pending report dates of one casa.
func LoadPending(ctx context.Context, db *mongo.Database, casaID primitive.ObjectID) ([]string, error) {
	dates, err := attendancestore.New(db).Dates(ctx, casaID)
	if err != nil {
		return nil, err
	}
	filled, err := reportstore.New(db).FilledDates(ctx, casaID)
	if err != nil {
		return nil, err
	}
	return PendingDates(dates, filled), nil
}

// CasaStatus is one row of the admin pending-report view.
type CasaStatus struct {
	CasaID       primitive.ObjectID `json:"casa_id"`
	LeaderName   string             `json:"leader_name"`
	Campus       string             `json:"campus"`
	Network      string             `json:"network,omitempty"`
	MeetingDays  []string           `json:"meeting_days"`
	ExpectedDate string             `json:"expected_date,omitempty"`
	Reported     bool               `json:"reported"`
	// Unknown is set when the casa has no usable meeting weekday.
	Unknown bool `json:"unknown"`
}

// Pending reports whether the casa owes a report for its expected date.
func (s CasaStatus) Pending() bool { return !s.Unknown && !s.Reported }

// ExpectedFor infers the casa's most recent expected meeting date.
func ExpectedFor(c models.Casa, now time.Time) (string, bool) {
	d, ok := meetings.LastExpected(c.MeetingDays, now)
	if !ok {
		return "", false
	}
	return d.Format(normalize.DateLayout), true
}

// AdminPending checks every casa, one at a time, for a filled report on
// its most recent expected meeting date.
func AdminPending(ctx context.Context, db *mongo.Database, now time.Time) ([]CasaStatus, error) {
	casas, err := casastore.New(db).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reports := reportstore.New(db)

	out := make([]CasaStatus, 0, len(casas))
	for _, c := range casas {
		st := CasaStatus{
			CasaID:      c.ID,
			LeaderName:  c.LeaderName,
			Campus:      c.Campus,
			Network:     c.Network,
			MeetingDays: c.MeetingDays,
		}
		date, ok := ExpectedFor(c, now)
		if !ok {
			st.Unknown = true
			out = append(out, st)
			continue
		}
		st.ExpectedDate = date

		r, err := reports.GetByCasaDate(ctx, c.ID, date)
		switch {
		case err == nil:
			st.Reported = r.Filled()
		case !errors.Is(err, reportstore.ErrNotFound):
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
