// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance is a per-member, per-date presence row.
// MeetingDate is a calendar date in YYYY-MM-DD form.
type Attendance struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CasaID      primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	MemberID    primitive.ObjectID `bson:"member_id" json:"member_id"`
	MeetingDate string             `bson:"meeting_date" json:"meeting_date"`
	Present     bool               `bson:"present" json:"present"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
