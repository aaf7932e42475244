// internal/app/features/members/types.go
package members

import (
	memberstore "github.com/dalemusser/casadefe/internal/app/store/members"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/casadefe/internal/app/system/phone"
	"github.com/dalemusser/casadefe/internal/domain/models"
)

// memberInput is the create and edit dialog payload.
type memberInput struct {
	Name          string `json:"name" validate:"required,max=200" label:"Nome"`
	Phone         string `json:"phone" validate:"omitempty,phone" label:"Telefone"`
	Age           *int   `json:"age" validate:"omitempty,min=0,max=130" label:"Idade"`
	Address       string `json:"address" validate:"max=500" label:"Endereço"`
	Notes         string `json:"notes" validate:"max=2000" label:"Observações"`
	AcceptedFaith bool   `json:"accepted_faith"`
	Reconciled    bool   `json:"reconciled"`
}

func (in *memberInput) normalize() {
	in.Name = normalize.Name(in.Name)
	in.Phone = phone.Digits(in.Phone)
	in.Address = normalize.Text(in.Address)
	in.Notes = normalize.Text(in.Notes)
}

func (in memberInput) toUpdate() memberstore.Update {
	return memberstore.Update{
		Name:          in.Name,
		Phone:         in.Phone,
		Age:           in.Age,
		Address:       in.Address,
		Notes:         in.Notes,
		AcceptedFaith: in.AcceptedFaith,
		Reconciled:    in.Reconciled,
	}
}

// memberView adds the display phone to a member.
type memberView struct {
	models.Member
	PhoneDisplay string `json:"phone_display,omitempty"`
}

func viewOf(m models.Member) memberView {
	return memberView{Member: m, PhoneDisplay: phone.Format(m.Phone)}
}
