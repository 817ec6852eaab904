// internal/app/store/store.go

// Package store defines the persistence collaborator contract the
// membership core runs against. Two implementations exist: mongostore
// (MongoDB, the production backend) and memstore (in-memory, used by
// tests and as a dev backend). Implementations translate their native
// errors into the fault taxonomy; callers never see driver errors.
package store

import (
	"context"

	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityPatch is the host-editable slice of an activity. All three
// fields are written on every edit; description and image are clearable
// by passing the empty string.
type ActivityPatch struct {
	Title       string
	Description string
	ImageURL    string
}

// Activities is the activities collection.
type Activities interface {
	// Insert assigns ID/CreatedAt/UpdatedAt if unset and stores the record.
	Insert(ctx context.Context, a models.Activity) (models.Activity, error)

	// GetByID returns fault.ErrNotFound when no such activity exists.
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Activity, error)

	// UpdateInfo patches title/description/image and bumps updated_at.
	// fault.ErrNotFound when the activity is gone.
	UpdateInfo(ctx context.Context, id primitive.ObjectID, patch ActivityPatch) error

	// Delete is idempotent: deleting an absent activity is not an error.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ListActive returns live activities (ended excluded), newest first.
	ListActive(ctx context.Context) ([]models.Activity, error)

	// ListActiveByHost returns the host's live activities, newest first.
	ListActiveByHost(ctx context.Context, hostID primitive.ObjectID) ([]models.Activity, error)
}

// Requests is the activity_requests collection.
type Requests interface {
	// Insert stores a new request. fault.ErrDuplicateRequest when a
	// request for (activity_id, user_id) already exists — enforced at
	// the store so concurrent requests cannot slip past the engine's
	// optimistic check.
	Insert(ctx context.Context, r models.JoinRequest) (models.JoinRequest, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error)

	// FindByActivityAndUser returns fault.ErrNotFound when the user has
	// no request on the activity.
	FindByActivityAndUser(ctx context.Context, activityID, userID primitive.ObjectID) (models.JoinRequest, error)

	// ListByActivity returns all requests for an activity, newest first.
	ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]models.JoinRequest, error)

	// ListByUser returns all requests a user has made, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error)

	// ResolveIfPending conditionally sets the status: the write applies
	// only if the stored status is still pending. A lost race (or an
	// already-resolved request) is fault.ErrInvalidTransition; a missing
	// request is fault.ErrNotFound.
	ResolveIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error

	// DeleteByActivity removes every request for the activity and
	// returns how many went away. Zero is success, not an error.
	DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) (int64, error)
}

// Chats is the chats collection.
type Chats interface {
	Insert(ctx context.Context, c models.Chat) error

	GetByID(ctx context.Context, id primitive.ObjectID) (models.Chat, error)

	// AddParticipant appends userID to the participants set as an atomic
	// set-union. Adding a user who is already present is a no-op.
	AddParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error

	// Delete is idempotent.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Watch opens a live subscription delivering the full chat record on
	// every change, starting with the current state.
	Watch(ctx context.Context, id primitive.ObjectID) (*Subscription[models.Chat], error)
}

// Messages is the messages collection.
type Messages interface {
	// Append stores the message with a store-assigned ID and timestamp.
	// The caller's CreatedAt is ignored.
	Append(ctx context.Context, m models.Message) (models.Message, error)

	// ListByChat returns the chat's messages ordered by (created_at, _id)
	// ascending.
	ListByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error)

	// DeleteByChat removes all messages under the chat. Idempotent.
	DeleteByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error)

	// Watch opens a live subscription delivering the full ordered
	// message list on every append, starting with the current list.
	Watch(ctx context.Context, chatID primitive.ObjectID) (*Subscription[[]models.Message], error)
}

// ProfilePatch carries the owner-editable profile fields; nil means
// leave unchanged.
type ProfilePatch struct {
	Username     *string
	ProfileImage *string
}

// Profiles is the profiles collection.
type Profiles interface {
	// Insert stores a new profile. A taken username (folded,
	// case-insensitive) or email surfaces as a fault.ValidationError.
	Insert(ctx context.Context, p models.Profile) (models.Profile, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error)

	GetByEmail(ctx context.Context, email string) (models.Profile, error)

	// GetMany batch-loads profiles by id. Missing ids are simply absent
	// from the result map; the caller decides whether that degrades.
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error)

	Update(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) error
}

// Stores bundles the per-collection stores for injection into the
// lifecycle service and the feature handlers.
type Stores struct {
	Activities Activities
	Requests   Requests
	Chats      Chats
	Messages   Messages
	Profiles   Profiles
}
