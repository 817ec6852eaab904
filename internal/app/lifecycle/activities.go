// internal/app/lifecycle/activities.go
package lifecycle

import (
	"context"
	"errors"

	"github.com/seeyou-app/seeyou/internal/app/policy/chataccess"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateActivity inserts the activity and its chat. The chat shares the
// activity's _id and starts with the host as its only participant.
//
// There is no multi-document transaction here. If the chat insert fails
// the activity insert is compensated with a delete and the caller gets
// fault.ErrPartialFailure; an activity without a chat must not survive,
// since every later chat lookup assumes the 1:1 pairing.
func (s *Service) CreateActivity(ctx context.Context, hostID primitive.ObjectID, in ActivityInput) (models.Activity, error) {
	in, err := in.clean()
	if err != nil {
		return models.Activity{}, err
	}

	now := s.now().UTC()
	activity, err := s.Stores.Activities.Insert(ctx, models.Activity{
		HostID:          hostID,
		Title:           in.Title,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		MaxParticipants: in.MaxParticipants,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return models.Activity{}, err
	}

	chat := models.Chat{
		ID:           activity.ID,
		ActivityID:   activity.ID,
		HostID:       hostID,
		Participants: []primitive.ObjectID{hostID},
		CreatedAt:    now,
	}
	if err := s.Stores.Chats.Insert(ctx, chat); err != nil {
		s.Log.Error("chat insert failed, rolling back activity",
			zap.String("activity_id", activity.ID.Hex()),
			zap.Error(err))
		if delErr := s.Stores.Activities.Delete(ctx, activity.ID); delErr != nil {
			s.Log.Error("activity rollback failed",
				zap.String("activity_id", activity.ID.Hex()),
				zap.Error(delErr))
		}
		return models.Activity{}, fault.PartialFailure(err)
	}

	return activity, nil
}

// EditActivity updates the activity's editable fields. Host only; the
// host id, participant cap semantics, and the chat are untouched.
func (s *Service) EditActivity(ctx context.Context, actorID, activityID primitive.ObjectID, in ActivityInput) (models.Activity, error) {
	activity, err := s.Stores.Activities.GetByID(ctx, activityID)
	if err != nil {
		return models.Activity{}, err
	}
	if !activity.IsHost(actorID) {
		return models.Activity{}, fault.ErrForbidden
	}

	in, err = in.clean()
	if err != nil {
		return models.Activity{}, err
	}

	err = s.Stores.Activities.UpdateInfo(ctx, activityID, store.ActivityPatch{
		Title:       in.Title,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return models.Activity{}, err
	}
	return s.Stores.Activities.GetByID(ctx, activityID)
}

// EndActivity tears the activity down: requests, then messages, then
// the chat, then the activity itself. Host only.
//
// The order matters. Requests go first so no accept can land mid-end;
// the activity goes last so a crash between steps leaves a record that
// a retry can still find and finish. A missing activity is success,
// since a previous call (or a concurrent one) already converged.
func (s *Service) EndActivity(ctx context.Context, actorID, activityID primitive.ObjectID) error {
	activity, err := s.Stores.Activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			return nil
		}
		return err
	}
	if !activity.IsHost(actorID) {
		return fault.ErrForbidden
	}

	removed, err := s.Stores.Requests.DeleteByActivity(ctx, activityID)
	if err != nil {
		return fault.PartialFailure(err)
	}
	if _, err := s.Stores.Messages.DeleteByChat(ctx, activityID); err != nil {
		return fault.PartialFailure(err)
	}
	if err := s.Stores.Chats.Delete(ctx, activityID); err != nil {
		return fault.PartialFailure(err)
	}
	if err := s.Stores.Activities.Delete(ctx, activityID); err != nil {
		return fault.PartialFailure(err)
	}

	s.Log.Info("activity ended",
		zap.String("activity_id", activityID.Hex()),
		zap.Int64("requests_removed", removed))
	return nil
}

// Feed returns every live activity, newest first.
func (s *Service) Feed(ctx context.Context) ([]models.Activity, error) {
	return s.Stores.Activities.ListActive(ctx)
}

// ActivityView is the per-viewer read model for one activity.
type ActivityView struct {
	Activity models.Activity `json:"activity"`

	IsHost           bool                `json:"is_host"`
	MyRequest        *models.JoinRequest `json:"my_request,omitempty"`
	CanAccessChat    bool                `json:"can_access_chat"`
	ParticipantCount int                 `json:"participant_count"`

	// Requests is populated for the host only: every join request on
	// the activity with the requester's display data attached.
	Requests []RequestView `json:"requests,omitempty"`
}

// RequestView pairs a join request with the requester's display data.
type RequestView struct {
	Request  models.JoinRequest `json:"request"`
	Username string             `json:"username"`
	Image    string             `json:"profile_image,omitempty"`
}

// ViewActivity assembles the viewer-dependent read model. The chat
// access flag and participant count are derived fresh on every call.
func (s *Service) ViewActivity(ctx context.Context, viewerID, activityID primitive.ObjectID) (ActivityView, error) {
	activity, err := s.Stores.Activities.GetByID(ctx, activityID)
	if err != nil {
		return ActivityView{}, err
	}

	view := ActivityView{
		Activity: activity,
		IsHost:   activity.IsHost(viewerID),
	}

	myReq, err := s.Stores.Requests.FindByActivityAndUser(ctx, activityID, viewerID)
	switch {
	case err == nil:
		view.MyRequest = &myReq
	case !errors.Is(err, fault.ErrNotFound):
		return ActivityView{}, err
	}

	view.CanAccessChat = chataccess.CanAccessChat(activity, view.MyRequest, viewerID)

	chat, err := s.Stores.Chats.GetByID(ctx, activityID)
	switch {
	case err == nil:
		view.ParticipantCount = chataccess.ParticipantCount(chat)
	case errors.Is(err, fault.ErrNotFound):
		// A half-created activity whose chat insert never committed.
		// Render with a zero count rather than failing the page.
		s.Log.Warn("activity has no chat", zap.String("activity_id", activityID.Hex()))
	default:
		return ActivityView{}, err
	}

	if view.IsHost {
		requests, err := s.Stores.Requests.ListByActivity(ctx, activityID)
		if err != nil {
			return ActivityView{}, err
		}
		view.Requests, err = s.requestViews(ctx, requests)
		if err != nil {
			return ActivityView{}, err
		}
	}

	return view, nil
}

// requestViews batch-loads the requesters' profiles and attaches
// display data. A missing profile degrades to the placeholder name.
func (s *Service) requestViews(ctx context.Context, requests []models.JoinRequest) ([]RequestView, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.UserID)
	}
	profiles, err := s.Stores.Profiles.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]RequestView, 0, len(requests))
	for _, r := range requests {
		view := RequestView{Request: r, Username: models.PlaceholderUsername}
		if p, ok := profiles[r.UserID]; ok {
			view.Username = p.DisplayName()
			view.Image = p.ProfileImage
		} else {
			s.Log.Debug("requester profile missing",
				zap.String("user_id", r.UserID.Hex()))
		}
		views = append(views, view)
	}
	return views, nil
}

// UserActivities is the "my activities" read model: what the user
// hosts, where they wait, and where they are in.
type UserActivities struct {
	Hosted   []models.Activity `json:"hosted"`
	Waiting  []models.Activity `json:"waiting"`
	Accepted []models.Activity `json:"accepted"`
}

// Stats summarizes the user's standing for the profile page.
type Stats struct {
	Hosted   int `json:"hosted"`
	Waiting  int `json:"waiting"`
	Accepted int `json:"accepted"`
}

// ActivitiesFor gathers the user's hosted activities plus the ones
// their requests point at, bucketed by request status. Requests whose
// activity has since ended are skipped.
func (s *Service) ActivitiesFor(ctx context.Context, userID primitive.ObjectID) (UserActivities, error) {
	var out UserActivities

	hosted, err := s.Stores.Activities.ListActiveByHost(ctx, userID)
	if err != nil {
		return UserActivities{}, err
	}
	out.Hosted = hosted

	requests, err := s.Stores.Requests.ListByUser(ctx, userID)
	if err != nil {
		return UserActivities{}, err
	}
	for _, r := range requests {
		activity, err := s.Stores.Activities.GetByID(ctx, r.ActivityID)
		if errors.Is(err, fault.ErrNotFound) {
			continue
		}
		if err != nil {
			return UserActivities{}, err
		}
		switch r.Status {
		case models.RequestPending:
			out.Waiting = append(out.Waiting, activity)
		case models.RequestAccepted:
			out.Accepted = append(out.Accepted, activity)
		}
	}
	return out, nil
}

// StatsFor reduces ActivitiesFor to counts.
func (s *Service) StatsFor(ctx context.Context, userID primitive.ObjectID) (Stats, error) {
	ua, err := s.ActivitiesFor(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Hosted:   len(ua.Hosted),
		Waiting:  len(ua.Waiting),
		Accepted: len(ua.Accepted),
	}, nil
}
