// internal/domain/models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is the message thread scoped 1:1 to an activity. Its _id is the
// activity's _id, so a chat can always be located without a query.
//
// Participants is a set: the host (enrolled at creation) plus every user
// whose join request was accepted. Appends go through an atomic
// set-union at the store layer, never a read-modify-write of a local
// copy.
type Chat struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	ActivityID   primitive.ObjectID   `bson:"activity_id" json:"activity_id"`
	HostID       primitive.ObjectID   `bson:"host_id" json:"host_id"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	CreatedAt    time.Time            `bson:"created_at" json:"created_at"`
}

// HasParticipant reports whether userID is in the participants set.
func (c Chat) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
