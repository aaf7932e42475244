// internal/domain/models/casa.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Casa is a "Casa de Fé": a recurring small-group meeting owned by the
// leader (facilitator 1) who registered it.
//
// NOTE:
//   - Members are not embedded; they live in the members collection.
//   - Address is the composed, human-readable form of the structured
//     address fields. It is rebuilt whenever those fields change.
//   - MeetingDays holds Portuguese weekday labels ("quarta", "sábado").
//     Only the first one is used to infer the expected meeting date.
type Casa struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`

	LeaderName      string `bson:"leader_name" json:"leader_name"`
	LeaderNameCI    string `bson:"leader_name_ci" json:"-"`
	LeaderDocument  string `bson:"leader_document" json:"leader_document"` // CPF
	LeaderEmail     string `bson:"leader_email" json:"leader_email"`
	LeaderPhone     string `bson:"leader_phone" json:"leader_phone"`
	LeaderBirthDate string `bson:"leader_birth_date,omitempty" json:"leader_birth_date,omitempty"`

	Address      string `bson:"address" json:"address"`
	Street       string `bson:"street" json:"street"`
	Number       string `bson:"number" json:"number"`
	Neighborhood string `bson:"neighborhood" json:"neighborhood"`
	PostalCode   string `bson:"postal_code" json:"postal_code"`
	City         string `bson:"city" json:"city"`
	Landmark     string `bson:"landmark,omitempty" json:"landmark,omitempty"`

	Campus      string   `bson:"campus" json:"campus"`
	Network     string   `bson:"network,omitempty" json:"network,omitempty"`
	MeetingDays []string `bson:"meeting_days" json:"meeting_days"`
	MeetingTime string   `bson:"meeting_time" json:"meeting_time"`
	Generation  string   `bson:"generation,omitempty" json:"generation,omitempty"`

	Facilitator2Name  string `bson:"facilitator2_name,omitempty" json:"facilitator2_name,omitempty"`
	Facilitator2Phone string `bson:"facilitator2_phone,omitempty" json:"facilitator2_phone,omitempty"`
	Facilitator2Email string `bson:"facilitator2_email,omitempty" json:"facilitator2_email,omitempty"`

	HostName  string `bson:"host_name" json:"host_name"`
	HostPhone string `bson:"host_phone" json:"host_phone"`

	Facilitator1Baptized bool `bson:"facilitator1_baptized" json:"facilitator1_baptized"`
	Facilitator2Baptized bool `bson:"facilitator2_baptized" json:"facilitator2_baptized"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
