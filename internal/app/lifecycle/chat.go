// internal/app/lifecycle/chat.go
package lifecycle

import (
	"context"
	"errors"

	"github.com/seeyou-app/seeyou/internal/app/policy/chataccess"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/app/system/htmlsanitize"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// authorizeChat loads the activity and resolves whether viewerID may
// use its chat. Every chat operation funnels through this; access is
// never cached across calls.
func (s *Service) authorizeChat(ctx context.Context, viewerID, activityID primitive.ObjectID) (models.Activity, error) {
	activity, err := s.Stores.Activities.GetByID(ctx, activityID)
	if err != nil {
		return models.Activity{}, err
	}

	var req *models.JoinRequest
	r, err := s.Stores.Requests.FindByActivityAndUser(ctx, activityID, viewerID)
	switch {
	case err == nil:
		req = &r
	case !errors.Is(err, fault.ErrNotFound):
		return models.Activity{}, err
	}

	if !chataccess.CanAccessChat(activity, req, viewerID) {
		return models.Activity{}, fault.ErrForbidden
	}
	return activity, nil
}

// ChatView is the chat metadata read model.
type ChatView struct {
	Chat             models.Chat       `json:"chat"`
	ActivityTitle    string            `json:"activity_title"`
	ParticipantCount int               `json:"participant_count"`
	Participants     []ParticipantView `json:"participants"`
}

// ParticipantView is the display slice of a chat member.
type ParticipantView struct {
	UserID   primitive.ObjectID `json:"user_id"`
	Username string             `json:"username"`
	Image    string             `json:"profile_image,omitempty"`
}

// ViewChat returns the chat record for an activity the viewer can
// access, with participant display data batch-loaded in one lookup.
func (s *Service) ViewChat(ctx context.Context, viewerID, activityID primitive.ObjectID) (ChatView, error) {
	activity, err := s.authorizeChat(ctx, viewerID, activityID)
	if err != nil {
		return ChatView{}, err
	}
	chat, err := s.Stores.Chats.GetByID(ctx, activityID)
	if err != nil {
		return ChatView{}, err
	}

	profiles, err := s.Stores.Profiles.GetMany(ctx, chat.Participants)
	if err != nil {
		return ChatView{}, err
	}
	participants := make([]ParticipantView, 0, len(chat.Participants))
	for _, id := range chat.Participants {
		pv := ParticipantView{UserID: id, Username: models.PlaceholderUsername}
		if p, ok := profiles[id]; ok {
			pv.Username = p.DisplayName()
			pv.Image = p.ProfileImage
		} else {
			s.Log.Debug("participant profile missing",
				zap.String("user_id", id.Hex()),
				zap.String("chat_id", chat.ID.Hex()))
		}
		participants = append(participants, pv)
	}

	return ChatView{
		Chat:             chat,
		ActivityTitle:    activity.Title,
		ParticipantCount: chataccess.ParticipantCount(chat),
		Participants:     participants,
	}, nil
}

// Messages returns the chat history in send order.
func (s *Service) Messages(ctx context.Context, viewerID, activityID primitive.ObjectID) ([]models.Message, error) {
	if _, err := s.authorizeChat(ctx, viewerID, activityID); err != nil {
		return nil, err
	}
	return s.Stores.Messages.ListByChat(ctx, activityID)
}

// SendMessage appends a chat line for an authorized sender. The body is
// stripped of markup, trimmed, and bounded; the sender's username is
// snapshotted onto the message at send time.
func (s *Service) SendMessage(ctx context.Context, senderID, activityID primitive.ObjectID, body string) (models.Message, error) {
	if _, err := s.authorizeChat(ctx, senderID, activityID); err != nil {
		return models.Message{}, err
	}

	body = htmlsanitize.CleanField(body)
	if body == "" {
		return models.Message{}, fault.Validationf("message", "is required")
	}
	if len(body) > models.MessageMaxLen {
		return models.Message{}, fault.Validationf("message", "must be at most %d characters", models.MessageMaxLen)
	}

	username := models.PlaceholderUsername
	profile, err := s.Stores.Profiles.GetByID(ctx, senderID)
	switch {
	case err == nil:
		username = profile.DisplayName()
	case errors.Is(err, fault.ErrNotFound):
		s.Log.Debug("sender profile missing, using placeholder",
			zap.String("user_id", senderID.Hex()))
	default:
		return models.Message{}, err
	}

	return s.Stores.Messages.Append(ctx, models.Message{
		ChatID:   activityID,
		UserID:   senderID,
		Username: username,
		Message:  body,
	})
}

// WatchChat opens a live subscription on the chat record (participant
// changes). Access is checked once at open; ending the activity closes
// the stream.
func (s *Service) WatchChat(ctx context.Context, viewerID, activityID primitive.ObjectID) (*store.Subscription[models.Chat], error) {
	if _, err := s.authorizeChat(ctx, viewerID, activityID); err != nil {
		return nil, err
	}
	return s.Stores.Chats.Watch(ctx, activityID)
}

// WatchMessages opens a live subscription on the chat's message list.
func (s *Service) WatchMessages(ctx context.Context, viewerID, activityID primitive.ObjectID) (*store.Subscription[[]models.Message], error) {
	if _, err := s.authorizeChat(ctx, viewerID, activityID); err != nil {
		return nil, err
	}
	return s.Stores.Messages.Watch(ctx, activityID)
}
