// internal/app/policy/membership/membership.go

// Package membership is the join-request state machine. It is pure:
// given the records involved and the acting identity, it decides
// whether a transition is allowed and what side effects it implies.
// Nothing here touches a store; the lifecycle service re-validates the
// pending precondition at the store boundary with a conditional write,
// because two hosts' sessions can race on the same request.
package membership

import (
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is a host's verdict on a pending join request.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Status returns the terminal status an action resolves to.
func (a Action) Status() models.RequestStatus {
	if a == ActionAccept {
		return models.RequestAccepted
	}
	return models.RequestRejected
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return a == ActionAccept || a == ActionReject
}

// Decision is the effect set of an allowed transition.
type Decision struct {
	// Status is the new terminal status for the request.
	Status models.RequestStatus

	// AddParticipant is true when the requester must be appended to the
	// chat's participants set (accept only). The append is idempotent.
	AddParticipant bool
}

// Decide applies the transition rules for resolving req by actorID.
//
// Rules, in the order they are checked:
//   - the request must belong to the activity;
//   - only the activity's host may resolve requests (fault.ErrForbidden);
//   - the action must be accept or reject (fault.ErrInvalidTransition);
//   - the request must still be pending; accepted and rejected are both
//     terminal, reversal included (fault.ErrInvalidTransition).
func Decide(activity models.Activity, req models.JoinRequest, action Action, actorID primitive.ObjectID) (Decision, error) {
	if req.ActivityID != activity.ID {
		return Decision{}, fault.ErrNotFound
	}
	if !activity.IsHost(actorID) {
		return Decision{}, fault.ErrForbidden
	}
	if !action.Valid() {
		return Decision{}, fault.ErrInvalidTransition
	}
	if req.Status != models.RequestPending {
		return Decision{}, fault.ErrInvalidTransition
	}
	return Decision{
		Status:         action.Status(),
		AddParticipant: action == ActionAccept,
	}, nil
}

// CanRequestJoin checks the preconditions for actorID asking to join
// activity. existing is the actor's prior request on this activity, or
// nil when there is none.
//
//   - the host cannot request their own activity (fault.ErrForbidden);
//   - a prior request in any state blocks a new one
//     (fault.ErrDuplicateRequest).
//
// The duplicate check here is optimistic; the store's unique
// (activity_id, user_id) constraint is what actually closes the race.
func CanRequestJoin(activity models.Activity, existing *models.JoinRequest, actorID primitive.ObjectID) error {
	if activity.IsHost(actorID) {
		return fault.ErrForbidden
	}
	if existing != nil {
		return fault.ErrDuplicateRequest
	}
	return nil
}
