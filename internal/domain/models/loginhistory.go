// internal/domain/models/loginhistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sign-in methods recorded in login_records.
const (
	LoginMethodEmail = "email"
	LoginMethodPhone = "phone"
)

// LoginRecord captures a single successful sign-in.
// CreatedAt is indexed for recent-activity views.
type LoginRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Method    string             `bson:"method" json:"method"`
	IP        string             `bson:"ip" json:"ip"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
