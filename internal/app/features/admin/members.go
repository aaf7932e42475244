// internal/app/features/admin/members.go
package admin

import (
	"context"
	"net/http"

	casastore "github.com/dalemusser/casadefe/internal/app/store/casas"
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/paging"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/app/system/respond"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memberRow is a member with the casa it belongs to.
type memberRow struct {
	models.Member
	PhoneDisplay string `json:"phone_display,omitempty"`
	LeaderName   string `json:"leader_name"`
	Campus       string `json:"campus"`
	Network      string `json:"network,omitempty"`
}

type membersResponse struct {
	Filter  MemberFilter `json:"filter"`
	Total   int          `json:"total"`
	Page    paging.Range `json:"page"`
	Members []memberRow  `json:"members"`
}

func (h *Handler) loadMemberRows(ctx context.Context, f MemberFilter) ([]memberRow, error) {
	casas, err := casastore.New(h.DB).ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Casa, len(casas))
	for _, c := range casas {
		byID[c.ID] = c
	}
	all, err := memberstore.New(h.DB).ListAll(ctx)
	if err != nil {
		return nil, err
	}

	members := FilterMembers(all, byID, f, h.NetworkCampus)
	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		c := byID[m.CasaID]
		rows = append(rows, memberRow{
			Member:       m,
			PhoneDisplay: phone.Format(m.Phone),
			LeaderName:   c.LeaderName,
			Campus:       c.Campus,
			Network:      c.Network,
		})
	}
	return rows, nil
}

// ServeMembers lists members of every casa. ?q= ?campus= ?network=
// ?flag=accepted|reconciled filter in memory.
// GET /admin/members
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	f, ok := parseMemberFilter(r)
	if !ok {
		respond.Invalid(w, "Filtro inválido.", map[string]string{"flag": "Use accepted ou reconciled."})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.loadMemberRows(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Não foi possível carregar os membros.")
		return
	}
	page, rg := paging.FromRequest(r, rows)
	respond.OK(w, membersResponse{Filter: f, Total: len(rows), Page: rg, Members: page})
}
