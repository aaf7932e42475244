// Package csvimport reads the fixed-column casa spreadsheet exported from
// the old registration form and turns it into casas ready for import.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/domain/models"
)

// Columns is the fixed column order of the export. A header row with these
// names (any case) is skipped.
var Columns = []string{
	"leader_name", "leader_document", "leader_email", "leader_phone", "leader_birth_date",
	"street", "number", "neighborhood", "postal_code", "city", "landmark",
	"campus", "network", "meeting_days", "meeting_time",
	"host_name", "host_phone", "generation",
}

// MaxRows bounds a single import file.
const MaxRows = 20000

// ErrTooManyRows is returned when the file has more than MaxRows data rows.
var ErrTooManyRows = errors.New("csvimport: too many rows")

// RowError describes a rejected line.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

// Result holds the parsed casas and any rejected rows.
type Result struct {
	Casas  []models.Casa
	Errors []RowError
}

// HasErrors reports whether any row was rejected.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Parse reads r. Short rows are padded with empty cells; blank rows are
// skipped. A malformed CSV line is reported as a row error, not returned
// as err.
func Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var result Result
	first := true
	rows := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			result.Errors = append(result.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		line, _ := reader.FieldPos(0)
		if first {
			first = false
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			if isHeader(rec) {
				continue
			}
		}
		if blank(rec) {
			continue
		}
		rows++
		if rows > MaxRows {
			return result, ErrTooManyRows
		}

		c, reason := toCasa(rec)
		if reason != "" {
			result.Errors = append(result.Errors, RowError{Line: line, Reason: reason})
			continue
		}
		result.Casas = append(result.Casas, c)
	}
	return result, nil
}

func isHeader(rec []string) bool {
	return strings.EqualFold(strings.TrimSpace(rec[0]), Columns[0])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func toCasa(rec []string) (models.Casa, string) {
	col := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	c := models.Casa{
		LeaderName:     normalize.Name(col(0)),
		LeaderDocument: col(1),
		LeaderEmail:    normalize.Email(col(2)),
		Street:         col(5),
		Number:         col(6),
		Neighborhood:   col(7),
		PostalCode:     col(8),
		City:           col(9),
		Landmark:       col(10),
		Campus:         normalize.Label(col(11)),
		Network:        normalize.Label(col(12)),
		MeetingDays:    SplitDays(col(13)),
		MeetingTime:    col(14),
		HostName:       normalize.Name(col(15)),
		Generation:     normalize.Label(col(17)),
	}
	var ok bool
	if c.LeaderPhone, ok = phone.Canonical(col(3)); !ok {
		return c, fmt.Sprintf("invalid leader_phone %q", col(3))
	}
	if c.HostPhone, ok = phone.Canonical(col(16)); !ok {
		return c, fmt.Sprintf("invalid host_phone %q", col(16))
	}
	if bd := col(4); bd != "" {
		d, ok := normalize.Date(bd)
		if !ok {
			return c, fmt.Sprintf("invalid leader_birth_date %q", bd)
		}
		c.LeaderBirthDate = d
	}

	switch {
	case c.LeaderName == "":
		return c, "missing leader_name"
	case c.LeaderEmail == "" && c.LeaderPhone == "":
		return c, "missing leader_email and leader_phone"
	case c.Campus == "":
		return c, "missing campus"
	}
	c.Address = casastore.ComposeAddress(c.Street, c.Number, c.Neighborhood, c.City, c.PostalCode, c.Landmark)
	return c, ""
}

// SplitDays splits "quarta; sábado" or "quarta/sábado" into lower-case
// weekday labels.
func SplitDays(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == '/' || r == ','
	})
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			days = append(days, p)
		}
	}
	return days
}
