// internal/app/policy/chataccess/chataccess.go

// Package chataccess derives chat visibility from activity and request
// state. The derivations are pure and cheap; callers recompute them on
// every read instead of caching, so a status change is reflected the
// moment the underlying records change.
package chataccess

import (
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanAccessChat reports whether actorID may read and post in the chat
// of activity. req is the actor's join request on the activity, or nil
// when they never asked.
//
// The host can always access; everyone else needs an accepted request.
// Pending, rejected, and absent all deny.
func CanAccessChat(activity models.Activity, req *models.JoinRequest, actorID primitive.ObjectID) bool {
	if activity.IsHost(actorID) {
		return true
	}
	if req == nil {
		return false
	}
	return req.ActivityID == activity.ID &&
		req.UserID == actorID &&
		req.Status == models.RequestAccepted
}

// ParticipantCount is the size of the chat's participants set.
// Counts distinct ids; a record with a repeated entry still counts one.
func ParticipantCount(chat models.Chat) int {
	seen := make(map[primitive.ObjectID]struct{}, len(chat.Participants))
	for _, p := range chat.Participants {
		seen[p] = struct{}{}
	}
	return len(seen)
}
