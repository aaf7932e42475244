// internal/domain/models/report.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report holds the free-text notes for one meeting of a casa.
// There is at most one report per (casa_id, meeting_date).
type Report struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CasaID      primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	MeetingDate string             `bson:"meeting_date" json:"meeting_date"`
	Notes       string             `bson:"notes" json:"notes"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// Filled reports whether the report has non-blank notes.
func (r Report) Filled() bool {
	return strings.TrimSpace(r.Notes) != ""
}
