package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a viewer comment attached to a movie. Comments are created and
// deleted outside this API; the service only reads them through the
// comments-report join.
type Comment struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Name    string             `json:"name" bson:"name"`
	Email   string             `json:"email" bson:"email"`
	MovieID primitive.ObjectID `json:"movie_id" bson:"movie_id"`
	Text    string             `json:"text" bson:"text"`
	Date    time.Time          `json:"date" bson:"date"`
}
