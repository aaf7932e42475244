// internal/domain/models/registration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonalDraft is step 1 of the registration wizard: the leader.
type PersonalDraft struct {
	LeaderName      string `bson:"leader_name" json:"leader_name" validate:"required,max=200" label:"Nome"`
	LeaderDocument  string `bson:"leader_document" json:"leader_document" validate:"required,max=20" label:"CPF"`
	LeaderEmail     string `bson:"leader_email" json:"leader_email" validate:"required,email" label:"E-mail"`
	LeaderPhone     string `bson:"leader_phone" json:"leader_phone" validate:"required,phone" label:"Telefone"`
	LeaderBirthDate string `bson:"leader_birth_date,omitempty" json:"leader_birth_date,omitempty" validate:"omitempty,datetime=2006-01-02" label:"Data de nascimento"`
}

// CasaDraft is step 2: meeting, facilitator 2, host and address.
type CasaDraft struct {
	Campus      string   `bson:"campus" json:"campus" validate:"required" label:"Campus"`
	Network     string   `bson:"network,omitempty" json:"network,omitempty" label:"Rede"`
	MeetingDays []string `bson:"meeting_days" json:"meeting_days" validate:"required,min=1,dive,weekday" label:"Dia da reunião"`
	MeetingTime string   `bson:"meeting_time" json:"meeting_time" validate:"required,datetime=15:04" label:"Horário"`
	Generation  string   `bson:"generation,omitempty" json:"generation,omitempty" label:"Geração"`

	Facilitator2Name     string `bson:"facilitator2_name" json:"facilitator2_name" validate:"required,max=200" label:"Nome do facilitador 2"`
	Facilitator2Phone    string `bson:"facilitator2_phone" json:"facilitator2_phone" validate:"required,phone" label:"Telefone do facilitador 2"`
	Facilitator2Email    string `bson:"facilitator2_email,omitempty" json:"facilitator2_email,omitempty" validate:"omitempty,email" label:"E-mail do facilitador 2"`
	Facilitator1Baptized bool   `bson:"facilitator1_baptized" json:"facilitator1_baptized"`
	Facilitator2Baptized bool   `bson:"facilitator2_baptized" json:"facilitator2_baptized"`

	HostName  string `bson:"host_name" json:"host_name" validate:"required,max=200" label:"Nome do anfitrião"`
	HostPhone string `bson:"host_phone" json:"host_phone" validate:"required,phone" label:"Telefone do anfitrião"`

	Street       string `bson:"street" json:"street" validate:"required" label:"Rua"`
	Number       string `bson:"number" json:"number" validate:"required" label:"Número"`
	Neighborhood string `bson:"neighborhood" json:"neighborhood" validate:"required" label:"Bairro"`
	PostalCode   string `bson:"postal_code" json:"postal_code" validate:"required" label:"CEP"`
	City         string `bson:"city" json:"city" validate:"required" label:"Cidade"`
	Landmark     string `bson:"landmark,omitempty" json:"landmark,omitempty" label:"Ponto de referência"`
}

// RosterEntry is one member typed into step 3. MemberID is set when the
// entry was loaded from an existing member in edit mode.
type RosterEntry struct {
	MemberID      *primitive.ObjectID `bson:"member_id,omitempty" json:"member_id,omitempty"`
	Name          string              `bson:"name" json:"name" validate:"required,max=200" label:"Nome do membro"`
	Phone         string              `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,phone" label:"Telefone do membro"`
	Age           *int                `bson:"age,omitempty" json:"age,omitempty" validate:"omitempty,min=0,max=130" label:"Idade"`
	Address       string              `bson:"address,omitempty" json:"address,omitempty" label:"Endereço"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty" label:"Observações"`
	AcceptedFaith bool                `bson:"accepted_faith" json:"accepted_faith"`
	Reconciled    bool                `bson:"reconciled" json:"reconciled"`
}

// RosterDraft is step 3: the optional member roster.
type RosterDraft struct {
	Members []RosterEntry `bson:"members" json:"members"`
}

// RegistrationDraft is the server-side state of one user's wizard.
// It replaces the browser-persisted draft: one document per user,
// expiring at ExpiresAt (TTL index).
type RegistrationDraft struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Step          int                 `bson:"step" json:"step"`
	EditingCasaID *primitive.ObjectID `bson:"editing_casa_id,omitempty" json:"editing_casa_id,omitempty"`

	Personal PersonalDraft `bson:"personal" json:"personal"`
	Casa     CasaDraft     `bson:"casa" json:"casa"`
	Roster   RosterDraft   `bson:"roster" json:"roster"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}
