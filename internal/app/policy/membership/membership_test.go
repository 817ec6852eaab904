package membership_test

import (
	"errors"
	"testing"

	"github.com/seeyou-app/seeyou/internal/app/policy/membership"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecide(t *testing.T) {
	hostID := primitive.NewObjectID()
	requesterID := primitive.NewObjectID()
	strangerID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()

	activity := models.Activity{ID: activityID, HostID: hostID, Title: "Board Games"}

	req := func(status models.RequestStatus) models.JoinRequest {
		return models.JoinRequest{
			ID:         primitive.NewObjectID(),
			ActivityID: activityID,
			UserID:     requesterID,
			Status:     status,
		}
	}

	tests := []struct {
		name    string
		req     models.JoinRequest
		action  membership.Action
		actor   primitive.ObjectID
		wantErr error
		want    membership.Decision
	}{
		{
			name:   "host accepts pending",
			req:    req(models.RequestPending),
			action: membership.ActionAccept,
			actor:  hostID,
			want:   membership.Decision{Status: models.RequestAccepted, AddParticipant: true},
		},
		{
			name:   "host rejects pending",
			req:    req(models.RequestPending),
			action: membership.ActionReject,
			actor:  hostID,
			want:   membership.Decision{Status: models.RequestRejected},
		},
		{
			name:    "non-host cannot accept",
			req:     req(models.RequestPending),
			action:  membership.ActionAccept,
			actor:   strangerID,
			wantErr: fault.ErrForbidden,
		},
		{
			name:    "requester cannot accept own request",
			req:     req(models.RequestPending),
			action:  membership.ActionAccept,
			actor:   requesterID,
			wantErr: fault.ErrForbidden,
		},
		{
			name:    "accepted is terminal",
			req:     req(models.RequestAccepted),
			action:  membership.ActionReject,
			actor:   hostID,
			wantErr: fault.ErrInvalidTransition,
		},
		{
			name:    "rejected is terminal",
			req:     req(models.RequestRejected),
			action:  membership.ActionAccept,
			actor:   hostID,
			wantErr: fault.ErrInvalidTransition,
		},
		{
			name:    "re-accept is not permitted",
			req:     req(models.RequestAccepted),
			action:  membership.ActionAccept,
			actor:   hostID,
			wantErr: fault.ErrInvalidTransition,
		},
		{
			name:    "unknown action",
			req:     req(models.RequestPending),
			action:  membership.Action("approve"),
			actor:   hostID,
			wantErr: fault.ErrInvalidTransition,
		},
		{
			name: "request from another activity",
			req: models.JoinRequest{
				ID:         primitive.NewObjectID(),
				ActivityID: primitive.NewObjectID(),
				UserID:     requesterID,
				Status:     models.RequestPending,
			},
			action:  membership.ActionAccept,
			actor:   hostID,
			wantErr: fault.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := membership.Decide(activity, tt.req, tt.action, tt.actor)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decide error: got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decide failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decide: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// Whatever the starting state, the only reachable transitions are
// pending->accepted and pending->rejected.
func TestDecide_OnlyPendingTransitions(t *testing.T) {
	hostID := primitive.NewObjectID()
	activityID := primitive.NewObjectID()
	activity := models.Activity{ID: activityID, HostID: hostID}

	statuses := []models.RequestStatus{
		models.RequestPending,
		models.RequestAccepted,
		models.RequestRejected,
	}
	actions := []membership.Action{membership.ActionAccept, membership.ActionReject}

	for _, status := range statuses {
		for _, action := range actions {
			req := models.JoinRequest{
				ID:         primitive.NewObjectID(),
				ActivityID: activityID,
				UserID:     primitive.NewObjectID(),
				Status:     status,
			}
			got, err := membership.Decide(activity, req, action, hostID)
			if status == models.RequestPending {
				if err != nil {
					t.Errorf("pending->%s: unexpected error %v", action, err)
				} else if got.Status != action.Status() {
					t.Errorf("pending->%s: got status %q", action, got.Status)
				}
				continue
			}
			if !errors.Is(err, fault.ErrInvalidTransition) {
				t.Errorf("%s->%s: got %v, want ErrInvalidTransition", status, action, err)
			}
		}
	}
}

func TestCanRequestJoin(t *testing.T) {
	hostID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	activity := models.Activity{ID: primitive.NewObjectID(), HostID: hostID}

	if err := membership.CanRequestJoin(activity, nil, userID); err != nil {
		t.Errorf("fresh request should be allowed, got %v", err)
	}

	if err := membership.CanRequestJoin(activity, nil, hostID); !errors.Is(err, fault.ErrForbidden) {
		t.Errorf("host requesting own activity: got %v, want ErrForbidden", err)
	}

	for _, status := range []models.RequestStatus{
		models.RequestPending,
		models.RequestAccepted,
		models.RequestRejected,
	} {
		existing := &models.JoinRequest{
			ActivityID: activity.ID,
			UserID:     userID,
			Status:     status,
		}
		if err := membership.CanRequestJoin(activity, existing, userID); !errors.Is(err, fault.ErrDuplicateRequest) {
			t.Errorf("existing %s request: got %v, want ErrDuplicateRequest", status, err)
		}
	}
}
