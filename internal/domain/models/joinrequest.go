// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus is the lifecycle state of a join request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// Terminal reports whether no further transition is permitted from s.
// Accepted and rejected are both terminal; there is no un-accept.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// JoinRequest is a user's bid to participate in an activity.
// Exactly one document per (activity_id, user_id); the unique index on
// that pair is what makes duplicate requests a store-level error rather
// than a race.
type JoinRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActivityID primitive.ObjectID `bson:"activity_id" json:"activity_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status     RequestStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
