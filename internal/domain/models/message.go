// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageMaxLen is the maximum message body length after trimming.
const MessageMaxLen = 500

// Message is a single chat line. Messages are append-only: no edit, no
// single delete. They go away only when the parent chat is cascaded.
//
// Username is a denormalized snapshot of the author's name at send time;
// it is display data, not authority. Ordering is total: created_at
// (assigned by the store, not the client) with _id as the tie-breaker.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID    primitive.ObjectID `bson:"chat_id" json:"chat_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Username  string             `bson:"username" json:"username"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
