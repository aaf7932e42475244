// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member is a participant tracked within exactly one casa.
// AcceptedFaith and Reconciled are independent flags that leaders can
// toggle while taking attendance.
type Member struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	CasaID primitive.ObjectID `bson:"casa_id" json:"casa_id"`

	Name    string `bson:"name" json:"name"`
	NameCI  string `bson:"name_ci" json:"-"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Age     *int   `bson:"age,omitempty" json:"age,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	Notes   string `bson:"notes,omitempty" json:"notes,omitempty"`

	AcceptedFaith bool `bson:"accepted_faith" json:"accepted_faith"`
	Reconciled    bool `bson:"reconciled" json:"reconciled"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
