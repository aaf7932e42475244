// Package meetings interprets a casa's configured meeting weekdays.
package meetings

import (
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
)

var weekdays = map[string]time.Weekday{
	"domingo": time.Sunday,
	"segunda": time.Monday,
	"terca":   time.Tuesday,
	"terça":   time.Tuesday,
	"quarta":  time.Wednesday,
	"quinta":  time.Thursday,
	"sexta":   time.Friday,
	"sabado":  time.Saturday,
	"sábado":  time.Saturday,

	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var labels = [...]string{"domingo", "segunda", "terça", "quarta", "quinta", "sexta", "sábado"}

// ParseWeekday accepts Portuguese labels with or without accents and the
// "-feira" suffix ("Quarta-feira", "sabado"), and English day names.
func ParseWeekday(s string) (time.Weekday, bool) {
	k := strings.ToLower(text.Fold(strings.TrimSpace(s)))
	k = strings.TrimSuffix(k, "-feira")
	k = strings.TrimSuffix(k, " feira")
	wd, ok := weekdays[k]
	return wd, ok
}

// Label returns the canonical Portuguese label for wd.
func Label(wd time.Weekday) string {
	return labels[wd]
}

// IsWeekday reports whether s parses as a weekday.
func IsWeekday(s string) bool {
	_, ok := ParseWeekday(s)
	return ok
}

// LastExpected returns the most recent meeting date that should already
// have a report, derived from the first configured weekday.
//
// A casa that meets today has not met yet from the report's point of
// view, so its last expected meeting is the same weekday one week back.
// ok is false when no weekday is configured or the first one is unknown.
func LastExpected(days []string, now time.Time) (time.Time, bool) {
	if len(days) == 0 {
		return time.Time{}, false
	}
	wd, ok := ParseWeekday(days[0])
	if !ok {
		return time.Time{}, false
	}
	diff := (int(now.Weekday()) - int(wd) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -diff), true
}

// Clock returns a clock reading the current time in loc, so weekday and
// calendar date follow the casas' zone rather than the host's. A nil loc
// means time.Local.
func Clock(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}
