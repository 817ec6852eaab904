// internal/app/store/mongostore/requests.go
package mongostore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requests struct {
	c *mongo.Collection
}

func (r *requests) Insert(ctx context.Context, req models.JoinRequest) (models.JoinRequest, error) {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	if req.Status == "" {
		req.Status = models.RequestPending
	}
	if _, err := r.c.InsertOne(ctx, req); err != nil {
		// The unique (activity_id, user_id) index turns a racing second
		// request into a duplicate-key error.
		if wafflemongo.IsDup(err) {
			return models.JoinRequest{}, fault.ErrDuplicateRequest
		}
		return models.JoinRequest{}, err
	}
	return req, nil
}

func (r *requests) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	var req models.JoinRequest
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.JoinRequest{}, fault.ErrNotFound
	}
	if err != nil {
		return models.JoinRequest{}, err
	}
	return req, nil
}

func (r *requests) FindByActivityAndUser(ctx context.Context, activityID, userID primitive.ObjectID) (models.JoinRequest, error) {
	var req models.JoinRequest
	err := r.c.FindOne(ctx, bson.M{"activity_id": activityID, "user_id": userID}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.JoinRequest{}, fault.ErrNotFound
	}
	if err != nil {
		return models.JoinRequest{}, err
	}
	return req, nil
}

func (r *requests) ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]models.JoinRequest, error) {
	return r.list(ctx, bson.M{"activity_id": activityID})
}

func (r *requests) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

func (r *requests) list(ctx context.Context, filter bson.M) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveIfPending is the conditional write that serializes racing
// resolutions: the filter matches only while the stored status is still
// pending, so of two concurrent verdicts exactly one modifies the
// document.
func (r *requests) ResolveIfPending(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the request is gone or someone else resolved it first;
		// tell them apart with a second lookup.
		n, err := r.c.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return fault.ErrNotFound
		}
		return fault.ErrInvalidTransition
	}
	return nil
}

func (r *requests) DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{"activity_id": activityID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
