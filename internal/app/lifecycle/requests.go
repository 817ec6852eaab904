// internal/app/lifecycle/requests.go
package lifecycle

import (
	"context"
	"errors"

	"github.com/seeyou-app/seeyou/internal/app/policy/membership"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RequestToJoin files a pending join request by userID on the activity.
//
// The policy check on the existing request is a courtesy read; the
// store's unique (activity_id, user_id) constraint is what actually
// decides when two requests race.
func (s *Service) RequestToJoin(ctx context.Context, userID, activityID primitive.ObjectID) (models.JoinRequest, error) {
	activity, err := s.Stores.Activities.GetByID(ctx, activityID)
	if err != nil {
		return models.JoinRequest{}, err
	}

	var existing *models.JoinRequest
	prior, err := s.Stores.Requests.FindByActivityAndUser(ctx, activityID, userID)
	switch {
	case err == nil:
		existing = &prior
	case !errors.Is(err, fault.ErrNotFound):
		return models.JoinRequest{}, err
	}

	if err := membership.CanRequestJoin(activity, existing, userID); err != nil {
		return models.JoinRequest{}, err
	}

	return s.Stores.Requests.Insert(ctx, models.JoinRequest{
		ActivityID: activityID,
		UserID:     userID,
		Status:     models.RequestPending,
		CreatedAt:  s.now().UTC(),
	})
}

// ResolveRequest applies a host's accept or reject verdict.
//
// The transition commits through the store's conditional write, so of
// two racing resolutions exactly one wins; the loser gets
// fault.ErrInvalidTransition. On accept the requester joins the chat's
// participants set afterwards; that append is idempotent, so a retry
// after a crash between the two writes converges.
func (s *Service) ResolveRequest(ctx context.Context, actorID, requestID primitive.ObjectID, action membership.Action) (models.JoinRequest, error) {
	req, err := s.Stores.Requests.GetByID(ctx, requestID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	activity, err := s.Stores.Activities.GetByID(ctx, req.ActivityID)
	if err != nil {
		return models.JoinRequest{}, err
	}

	decision, err := membership.Decide(activity, req, action, actorID)
	if err != nil {
		return models.JoinRequest{}, err
	}

	if err := s.Stores.Requests.ResolveIfPending(ctx, requestID, decision.Status); err != nil {
		return models.JoinRequest{}, err
	}
	req.Status = decision.Status

	if decision.AddParticipant {
		if err := s.Stores.Chats.AddParticipant(ctx, activity.ID, req.UserID); err != nil {
			// The request is already accepted; surface the gap instead
			// of pretending the user is in the chat.
			s.Log.Error("participant append failed after accept",
				zap.String("request_id", requestID.Hex()),
				zap.String("activity_id", activity.ID.Hex()),
				zap.Error(err))
			return req, fault.PartialFailure(err)
		}
	}

	return req, nil
}
