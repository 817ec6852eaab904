// internal/app/store/mongostore/profiles.go
package mongostore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type profiles struct {
	c *mongo.Collection
}

func (p *profiles) Insert(ctx context.Context, prof models.Profile) (models.Profile, error) {
	if prof.ID.IsZero() {
		prof.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if prof.CreatedAt.IsZero() {
		prof.CreatedAt = now
	}
	prof.UpdatedAt = now
	prof.UsernameCI = text.Fold(prof.Username)
	prof.Email = strings.ToLower(strings.TrimSpace(prof.Email))

	if _, err := p.c.InsertOne(ctx, prof); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, dupField(err)
		}
		return models.Profile{}, err
	}
	return prof, nil
}

// dupField maps a unique-index violation to the field the user can fix.
func dupField(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "username_ci") {
		return fault.Validationf("username", "is already taken")
	}
	if strings.Contains(msg, "email") {
		return fault.Validationf("email", "is already registered")
	}
	return fault.Validationf("profile", "already exists")
}

func (p *profiles) GetByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var prof models.Profile
	err := p.c.FindOne(ctx, bson.M{"_id": id}).Decode(&prof)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Profile{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, err
	}
	return prof, nil
}

func (p *profiles) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	var prof models.Profile
	err := p.c.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&prof)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Profile{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, err
	}
	return prof, nil
}

func (p *profiles) GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error) {
	out := make(map[primitive.ObjectID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := p.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var prof models.Profile
		if err := cur.Decode(&prof); err != nil {
			return nil, err
		}
		out[prof.ID] = prof
	}
	return out, cur.Err()
}

func (p *profiles) Update(ctx context.Context, id primitive.ObjectID, patch store.ProfilePatch) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Username != nil {
		set["username"] = *patch.Username
		set["username_ci"] = text.Fold(*patch.Username)
	}
	if patch.ProfileImage != nil {
		set["profile_image"] = *patch.ProfileImage
	}

	res, err := p.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return fault.Validationf("username", "is already taken")
		}
		return err
	}
	if res.MatchedCount == 0 {
		return fault.ErrNotFound
	}
	return nil
}
