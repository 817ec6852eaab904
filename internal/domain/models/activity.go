// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field limits for activities. The same limits apply on create and edit.
const (
	TitleMaxLen       = 100
	DescriptionMaxLen = 500

	// DefaultMaxParticipants is assigned when a new activity does not
	// specify a participant cap.
	DefaultMaxParticipants = 10
)

// Activity is a hosted event users can request to join.
//
// NOTE:
//   - HostID is immutable after creation; edits never touch it.
//   - Join state is not embedded here. Use the activity_requests
//     collection to discover who asked to join and with what outcome.
//   - EndedAt is nil while the activity is live. Ending an activity is a
//     hard cascade delete, so a persisted non-nil EndedAt is transient.
type Activity struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HostID          primitive.ObjectID `bson:"host_id" json:"host_id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL        string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	MaxParticipants int                `bson:"max_participants" json:"max_participants"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	EndedAt   *time.Time `bson:"ended_at" json:"ended_at"`
}

// IsHost reports whether userID owns this activity.
func (a Activity) IsHost(userID primitive.ObjectID) bool {
	return a.HostID == userID
}
