// internal/domain/models/content.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PastoralWord is a global devotional post. Body is Markdown.
type PastoralWord struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	PublishedAt time.Time          `bson:"published_at" json:"published_at"`
}

// Testimony is a short text shared within one casa.
type Testimony struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CasaID      primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	Name        string             `bson:"name" json:"name"`
	Text        string             `bson:"text" json:"text"`
	PublishedAt time.Time          `bson:"published_at" json:"published_at"`
}

// PrayerRequest is a short prayer request shared within one casa.
type PrayerRequest struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CasaID      primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	Name        string             `bson:"name" json:"name"`
	Text        string             `bson:"text" json:"text"`
	PublishedAt time.Time          `bson:"published_at" json:"published_at"`
}
