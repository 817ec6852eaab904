// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixtures creates test records through the store interfaces, so the
// same helpers work against memstore and mongostore.
type Fixtures struct {
	stores store.Stores
	t      *testing.T
}

// NewFixtures wraps stores for the given test.
func NewFixtures(t *testing.T, stores store.Stores) *Fixtures {
	t.Helper()
	return &Fixtures{stores: stores, t: t}
}

// CreateProfile inserts a profile whose email derives from the
// username.
func (f *Fixtures) CreateProfile(ctx context.Context, username string) models.Profile {
	f.t.Helper()
	p, err := f.stores.Profiles.Insert(ctx, models.Profile{
		Username:   username,
		Email:      username + "@example.com",
		AuthMethod: models.AuthMethodPassword,
	})
	if err != nil {
		f.t.Fatalf("create test profile %q: %v", username, err)
	}
	return p
}

// CreateActivityWithChat inserts an activity and its paired chat, the
// same shape CreateActivity produces in production.
func (f *Fixtures) CreateActivityWithChat(ctx context.Context, hostID primitive.ObjectID, title string) models.Activity {
	f.t.Helper()
	a, err := f.stores.Activities.Insert(ctx, models.Activity{
		HostID:          hostID,
		Title:           title,
		MaxParticipants: models.DefaultMaxParticipants,
	})
	if err != nil {
		f.t.Fatalf("create test activity %q: %v", title, err)
	}
	err = f.stores.Chats.Insert(ctx, models.Chat{
		ID:           a.ID,
		ActivityID:   a.ID,
		HostID:       hostID,
		Participants: []primitive.ObjectID{hostID},
		CreatedAt:    a.CreatedAt,
	})
	if err != nil {
		f.t.Fatalf("create test chat for %q: %v", title, err)
	}
	return a
}

// CreateRequest inserts a join request in the given status.
func (f *Fixtures) CreateRequest(ctx context.Context, activityID, userID primitive.ObjectID, status models.RequestStatus) models.JoinRequest {
	f.t.Helper()
	r, err := f.stores.Requests.Insert(ctx, models.JoinRequest{
		ActivityID: activityID,
		UserID:     userID,
		Status:     status,
	})
	if err != nil {
		f.t.Fatalf("create test request: %v", err)
	}
	return r
}
