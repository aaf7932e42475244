// internal/app/features/registration/draft.go
package registration

import (
	"fmt"
	"strings"

	"github.com/dalemusser/casadefe/internal/app/system/inputval"
	"github.com/dalemusser/casadefe/internal/app/system/limits"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wizard steps. StepReview has no draft of its own.
const (
	StepPersonal = 1
	StepCasa     = 2
	StepRoster   = 3
	StepReview   = 4
)

func normalizePersonal(p *models.PersonalDraft) {
	p.LeaderName = normalize.Name(p.LeaderName)
	p.LeaderDocument = strings.TrimSpace(p.LeaderDocument)
	p.LeaderEmail = normalize.Email(p.LeaderEmail)
	p.LeaderPhone = phone.Digits(p.LeaderPhone)
	p.LeaderBirthDate = strings.TrimSpace(p.LeaderBirthDate)
}

func normalizeCasa(c *models.CasaDraft) {
	c.Campus = normalize.Label(c.Campus)
	c.Network = normalize.Label(c.Network)
	c.Generation = normalize.Label(c.Generation)
	c.MeetingTime = strings.TrimSpace(c.MeetingTime)
	days := make([]string, 0, len(c.MeetingDays))
	for _, d := range c.MeetingDays {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			days = append(days, d)
		}
	}
	c.MeetingDays = days

	c.Facilitator2Name = normalize.Name(c.Facilitator2Name)
	c.Facilitator2Phone = phone.Digits(c.Facilitator2Phone)
	c.Facilitator2Email = normalize.Email(c.Facilitator2Email)
	c.HostName = normalize.Name(c.HostName)
	c.HostPhone = phone.Digits(c.HostPhone)

	c.Street = normalize.Text(c.Street)
	c.Number = normalize.Text(c.Number)
	c.Neighborhood = normalize.Text(c.Neighborhood)
	c.PostalCode = normalize.Text(c.PostalCode)
	c.City = normalize.Text(c.City)
	c.Landmark = normalize.Text(c.Landmark)
}

func normalizeRoster(r *models.RosterDraft) {
	if r.Members == nil {
		r.Members = []models.RosterEntry{}
	}
	for i := range r.Members {
		m := &r.Members[i]
		m.Name = normalize.Name(m.Name)
		m.Phone = phone.Digits(m.Phone)
		m.Address = normalize.Text(m.Address)
		m.Notes = normalize.Text(m.Notes)
	}
}

func validateRoster(r models.RosterDraft) inputval.Result {
	var res inputval.Result
	if len(r.Members) > limits.MaxRoster {
		res.Add("members", fmt.Sprintf("No máximo %d membros por Casa de Fé.", limits.MaxRoster))
		return res
	}
	for i, m := range r.Members {
		res.Merge(fmt.Sprintf("members[%d].", i), inputval.Validate(m))
	}
	return res
}

// validateAll re-checks every step before submit. Keys are prefixed with
// the step's section so the client can route messages back.
func validateAll(d models.RegistrationDraft) inputval.Result {
	var res inputval.Result
	res.Merge("personal.", inputval.Validate(d.Personal))
	res.Merge("casa.", inputval.Validate(d.Casa))
	res.Merge("roster.", validateRoster(d.Roster))
	return res
}

// buildCasa turns a completed draft into a casa owned by ownerID.
func buildCasa(d models.RegistrationDraft, ownerID primitive.ObjectID) models.Casa {
	p, c := d.Personal, d.Casa
	return models.Casa{
		OwnerID:              ownerID,
		LeaderName:           p.LeaderName,
		LeaderDocument:       p.LeaderDocument,
		LeaderEmail:          p.LeaderEmail,
		LeaderPhone:          p.LeaderPhone,
		LeaderBirthDate:      p.LeaderBirthDate,
		Street:               c.Street,
		Number:               c.Number,
		Neighborhood:         c.Neighborhood,
		PostalCode:           c.PostalCode,
		City:                 c.City,
		Landmark:             c.Landmark,
		Campus:               c.Campus,
		Network:              c.Network,
		MeetingDays:          append([]string{}, c.MeetingDays...),
		MeetingTime:          c.MeetingTime,
		Generation:           c.Generation,
		Facilitator2Name:     c.Facilitator2Name,
		Facilitator2Phone:    c.Facilitator2Phone,
		Facilitator2Email:    c.Facilitator2Email,
		HostName:             c.HostName,
		HostPhone:            c.HostPhone,
		Facilitator1Baptized: c.Facilitator1Baptized,
		Facilitator2Baptized: c.Facilitator2Baptized,
	}
}

// buildRoster converts roster entries to members of casaID. Entries that
// came from stored members keep their ids.
func buildRoster(r models.RosterDraft, casaID primitive.ObjectID) []models.Member {
	out := make([]models.Member, 0, len(r.Members))
	for _, e := range r.Members {
		m := models.Member{
			CasaID:        casaID,
			Name:          e.Name,
			Phone:         e.Phone,
			Age:           e.Age,
			Address:       e.Address,
			Notes:         e.Notes,
			AcceptedFaith: e.AcceptedFaith,
			Reconciled:    e.Reconciled,
		}
		if e.MemberID != nil {
			m.ID = *e.MemberID
		}
		out = append(out, m)
	}
	return out
}

// draftFromCasa fills every step from stored rows for edit mode.
func draftFromCasa(userID primitive.ObjectID, c models.Casa, members []models.Member) models.RegistrationDraft {
	id := c.ID
	d := models.RegistrationDraft{
		UserID:        userID,
		Step:          StepReview,
		EditingCasaID: &id,
		Personal: models.PersonalDraft{
			LeaderName:      c.LeaderName,
			LeaderDocument:  c.LeaderDocument,
			LeaderEmail:     c.LeaderEmail,
			LeaderPhone:     c.LeaderPhone,
			LeaderBirthDate: c.LeaderBirthDate,
		},
		Casa: models.CasaDraft{
			Campus:               c.Campus,
			Network:              c.Network,
			MeetingDays:          append([]string{}, c.MeetingDays...),
			MeetingTime:          c.MeetingTime,
			Generation:           c.Generation,
			Facilitator2Name:     c.Facilitator2Name,
			Facilitator2Phone:    c.Facilitator2Phone,
			Facilitator2Email:    c.Facilitator2Email,
			Facilitator1Baptized: c.Facilitator1Baptized,
			Facilitator2Baptized: c.Facilitator2Baptized,
			HostName:             c.HostName,
			HostPhone:            c.HostPhone,
			Street:               c.Street,
			Number:               c.Number,
			Neighborhood:         c.Neighborhood,
			PostalCode:           c.PostalCode,
			City:                 c.City,
			Landmark:             c.Landmark,
		},
		Roster: models.RosterDraft{Members: make([]models.RosterEntry, 0, len(members))},
	}
	for _, m := range members {
		mid := m.ID
		d.Roster.Members = append(d.Roster.Members, models.RosterEntry{
			MemberID:      &mid,
			Name:          m.Name,
			Phone:         m.Phone,
			Age:           m.Age,
			Address:       m.Address,
			Notes:         m.Notes,
			AcceptedFaith: m.AcceptedFaith,
			Reconciled:    m.Reconciled,
		})
	}
	return d
}
