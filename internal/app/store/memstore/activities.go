// internal/app/store/memstore/activities.go
package memstore

import (
	"context"
	"sort"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type activities struct {
	s *Store
}

func (a *activities) Insert(ctx context.Context, act models.Activity) (models.Activity, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	now := a.s.now()
	if act.ID.IsZero() {
		act.ID = primitive.NewObjectID()
	}
	if act.CreatedAt.IsZero() {
		act.CreatedAt = now
	}
	act.UpdatedAt = now
	a.s.activities[act.ID] = act
	return act, nil
}

func (a *activities) GetByID(ctx context.Context, id primitive.ObjectID) (models.Activity, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	act, ok := a.s.activities[id]
	if !ok {
		return models.Activity{}, fault.ErrNotFound
	}
	return act, nil
}

func (a *activities) UpdateInfo(ctx context.Context, id primitive.ObjectID, patch store.ActivityPatch) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	act, ok := a.s.activities[id]
	if !ok {
		return fault.ErrNotFound
	}
	act.Title = patch.Title
	act.Description = patch.Description
	act.ImageURL = patch.ImageURL
	act.UpdatedAt = a.s.now()
	a.s.activities[id] = act
	return nil
}

func (a *activities) Delete(ctx context.Context, id primitive.ObjectID) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	delete(a.s.activities, id)
	return nil
}

func (a *activities) ListActive(ctx context.Context) ([]models.Activity, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	var out []models.Activity
	for _, act := range a.s.activities {
		if act.EndedAt == nil {
			out = append(out, act)
		}
	}
	sortActivitiesNewestFirst(out)
	return out, nil
}

func (a *activities) ListActiveByHost(ctx context.Context, hostID primitive.ObjectID) ([]models.Activity, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	var out []models.Activity
	for _, act := range a.s.activities {
		if act.EndedAt == nil && act.HostID == hostID {
			out = append(out, act)
		}
	}
	sortActivitiesNewestFirst(out)
	return out, nil
}

func sortActivitiesNewestFirst(acts []models.Activity) {
	sort.Slice(acts, func(i, j int) bool {
		if !acts[i].CreatedAt.Equal(acts[j].CreatedAt) {
			return acts[i].CreatedAt.After(acts[j].CreatedAt)
		}
		return acts[i].ID.Hex() > acts[j].ID.Hex()
	})
}
