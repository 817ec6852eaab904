// internal/app/store/mongostore/activities.go
package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type activities struct {
	c *mongo.Collection
}

func (a *activities) Insert(ctx context.Context, act models.Activity) (models.Activity, error) {
	if act.ID.IsZero() {
		act.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if act.CreatedAt.IsZero() {
		act.CreatedAt = now
	}
	if act.UpdatedAt.IsZero() {
		act.UpdatedAt = act.CreatedAt
	}
	if _, err := a.c.InsertOne(ctx, act); err != nil {
		return models.Activity{}, err
	}
	return act, nil
}

func (a *activities) GetByID(ctx context.Context, id primitive.ObjectID) (models.Activity, error) {
	var act models.Activity
	err := a.c.FindOne(ctx, bson.M{"_id": id}).Decode(&act)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Activity{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Activity{}, err
	}
	return act, nil
}

func (a *activities) UpdateInfo(ctx context.Context, id primitive.ObjectID, patch store.ActivityPatch) error {
	res, err := a.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":       patch.Title,
			"description": patch.Description,
			"image_url":   patch.ImageURL,
			"updated_at":  time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func (a *activities) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := a.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (a *activities) ListActive(ctx context.Context) ([]models.Activity, error) {
	return a.list(ctx, bson.M{"ended_at": nil})
}

func (a *activities) ListActiveByHost(ctx context.Context, hostID primitive.ObjectID) ([]models.Activity, error) {
	return a.list(ctx, bson.M{"host_id": hostID, "ended_at": nil})
}

func (a *activities) list(ctx context.Context, filter bson.M) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := a.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Activity
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
