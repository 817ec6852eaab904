// internal/app/store/memstore/profiles.go
package memstore

import (
	"context"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type profiles struct {
	s *Store
}

func (p *profiles) Insert(ctx context.Context, prof models.Profile) (models.Profile, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	prof.UsernameCI = text.Fold(prof.Username)
	email := strings.ToLower(strings.TrimSpace(prof.Email))
	for _, existing := range p.s.profiles {
		if existing.UsernameCI == prof.UsernameCI {
			return models.Profile{}, fault.Validationf("username", "already taken")
		}
		if strings.EqualFold(existing.Email, email) {
			return models.Profile{}, fault.Validationf("email", "already registered")
		}
	}

	now := p.s.now()
	if prof.ID.IsZero() {
		prof.ID = primitive.NewObjectID()
	}
	prof.Email = email
	prof.CreatedAt = now
	prof.UpdatedAt = now
	p.s.profiles[prof.ID] = prof
	return prof, nil
}

func (p *profiles) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	prof, ok := p.s.profiles[id]
	if !ok {
		return models.Profile{}, fault.ErrNotFound
	}
	return prof, nil
}

func (p *profiles) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	for _, prof := range p.s.profiles {
		if strings.EqualFold(prof.Email, email) {
			return prof, nil
		}
	}
	return models.Profile{}, fault.ErrNotFound
}

func (p *profiles) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	out := make(map[primitive.ObjectID]models.Profile, len(ids))
	for _, id := range ids {
		if prof, ok := p.s.profiles[id]; ok {
			out[id] = prof
		}
	}
	return out, nil
}

func (p *profiles) Update(ctx context.Context, id primitive.ObjectID, patch store.ProfilePatch) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	prof, ok := p.s.profiles[id]
	if !ok {
		return fault.ErrNotFound
	}
	if patch.Username != nil {
		folded := text.Fold(*patch.Username)
		for other, existing := range p.s.profiles {
			if other != id && existing.UsernameCI == folded {
				return fault.Validationf("username", "already taken")
			}
		}
		prof.Username = *patch.Username
		prof.UsernameCI = folded
	}
	if patch.ProfileImage != nil {
		prof.ProfileImage = *patch.ProfileImage
	}
	prof.UpdatedAt = p.s.now()
	p.s.profiles[id] = prof
	return nil
}
