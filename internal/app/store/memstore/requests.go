// internal/app/store/memstore/requests.go
package memstore

import (
	"context"
	"sort"

	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type requests struct {
	s *Store
}

func (r *requests) Insert(ctx context.Context, req models.JoinRequest) (models.JoinRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := requestKey{activityID: req.ActivityID, userID: req.UserID}
	if _, exists := r.s.requestKey[key]; exists {
		return models.JoinRequest{}, fault.ErrDuplicateRequest
	}

	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = r.s.now()
	}
	if req.Status == "" {
		req.Status = models.RequestPending
	}
	r.s.requests[req.ID] = req
	r.s.requestKey[key] = req.ID
	return req, nil
}

func (r *requests) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	req, ok := r.s.requests[id]
	if !ok {
		return models.JoinRequest{}, fault.ErrNotFound
	}
	return req, nil
}

func (r *requests) FindByActivityAndUser(ctx context.Context, activityID, userID primitive.ObjectID) (models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.requestKey[requestKey{activityID: activityID, userID: userID}]
	if !ok {
		return models.JoinRequest{}, fault.ErrNotFound
	}
	return r.s.requests[id], nil
}

func (r *requests) ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.JoinRequest
	for _, req := range r.s.requests {
		if req.ActivityID == activityID {
			out = append(out, req)
		}
	}
	sortRequestsNewestFirst(out)
	return out, nil
}

func (r *requests) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []models.JoinRequest
	for _, req := range r.s.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sortRequestsNewestFirst(out)
	return out, nil
}

// ResolveIfPending is the memstore's equivalent of a conditional
// update: the status check and the write happen under one lock, so a
// concurrent resolve observes either pending (and wins) or a terminal
// status (and loses with ErrInvalidTransition).
func (r *requests) ResolveIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok {
		return fault.ErrNotFound
	}
	if req.Status != models.RequestPending {
		return fault.ErrInvalidTransition
	}
	req.Status = status
	r.s.requests[id] = req
	return nil
}

func (r *requests) DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, req := range r.s.requests {
		if req.ActivityID == activityID {
			delete(r.s.requests, id)
			delete(r.s.requestKey, requestKey{activityID: activityID, userID: req.UserID})
			n++
		}
	}
	return n, nil
}

func sortRequestsNewestFirst(reqs []models.JoinRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if !reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
		}
		return reqs[i].ID.Hex() > reqs[j].ID.Hex()
	})
}
