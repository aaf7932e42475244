// internal/app/features/admin/filter.go
package admin

import (
	"net/http"
	"strings"

	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CasaFilter narrows the casa listing. Empty fields match everything.
type CasaFilter struct {
	Query   string `json:"q,omitempty"`
	Campus  string `json:"campus,omitempty"`
	Network string `json:"network,omitempty"`
}

// MemberFilter narrows the member listing. Campus and network refer to
// the member's casa.
type MemberFilter struct {
	CasaFilter
	Flag string `json:"flag,omitempty"`
}

func parseCasaFilter(r *http.Request) CasaFilter {
	q := r.URL.Query()
	return CasaFilter{
		Query:   normalize.QueryParam(q.Get("q")),
		Campus:  normalize.Label(q.Get("campus")),
		Network: normalize.Label(q.Get("network")),
	}
}

func parseMemberFilter(r *http.Request) (MemberFilter, bool) {
	f := MemberFilter{
		CasaFilter: parseCasaFilter(r),
		Flag:       normalize.QueryParam(r.URL.Query().Get("flag")),
	}
	switch f.Flag {
	case "", memberstore.FlagAccepted, memberstore.FlagReconciled:
		return f, true
	}
	return f, false
}

func fold(s string) string {
	return strings.ToLower(text.Fold(strings.TrimSpace(s)))
}

func containsFolded(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold(f), q) {
			return true
		}
	}
	return false
}

// matchesPlace applies campus, then network only when the chosen campus
// is the network-bearing one. A network on any other campus is ignored.
func matchesPlace(c models.Casa, f CasaFilter, networkCampus string) bool {
	if f.Campus == "" {
		return true
	}
	if fold(c.Campus) != fold(f.Campus) {
		return false
	}
	if f.Network == "" || networkCampus == "" || fold(f.Campus) != fold(networkCampus) {
		return true
	}
	return fold(c.Network) == fold(f.Network)
}

// FilterCasas keeps the casas matching f. The query matches a substring
// of the leader name, the leader email or the host name, ignoring case
// and accents.
func FilterCasas(casas []models.Casa, f CasaFilter, networkCampus string) []models.Casa {
	q := fold(f.Query)
	out := make([]models.Casa, 0, len(casas))
	for _, c := range casas {
		if q != "" && !containsFolded(q, c.LeaderName, c.LeaderEmail, c.HostName) {
			continue
		}
		if !matchesPlace(c, f, networkCampus) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterMembers keeps the members matching f. The query matches the
// member name or the leader name of the member's casa. Members whose casa
// is missing from casas only pass when no place filter is set.
func FilterMembers(members []models.Member, casas map[primitive.ObjectID]models.Casa, f MemberFilter, networkCampus string) []models.Member {
	q := fold(f.Query)
	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		c, known := casas[m.CasaID]
		if q != "" && !containsFolded(q, m.Name, c.LeaderName) {
			continue
		}
		if f.Campus != "" && (!known || !matchesPlace(c, f.CasaFilter, networkCampus)) {
			continue
		}
		switch f.Flag {
		case memberstore.FlagAccepted:
			if !m.AcceptedFaith {
				continue
			}
		case memberstore.FlagReconciled:
			if !m.Reconciled {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
