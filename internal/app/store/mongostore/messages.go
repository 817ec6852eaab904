// internal/app/store/mongostore/messages.go
package mongostore

import (
	"context"
	"time"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type messages struct {
	c     *mongo.Collection
	chats *mongo.Collection
	log   *zap.Logger
}

// Append assigns the id and timestamp here rather than trusting the
// caller; message order must come from one clock.
func (m *messages) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()
	if _, err := m.c.InsertOne(ctx, msg); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (m *messages) ListByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := m.c.Find(ctx, bson.M{"chat_id": chatID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *messages) DeleteByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error) {
	res, err := m.c.DeleteMany(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Watch streams the chat's full ordered history on every append. The
// chat must exist at open; a stream on a deleted chat ends when the
// fetch comes back empty-handed twice in a row with the chat gone.
func (m *messages) Watch(ctx context.Context, chatID primitive.ObjectID) (*store.Subscription[[]models.Message], error) {
	n, err := m.chats.CountDocuments(ctx, bson.M{"_id": chatID})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fault.ErrNotFound
	}

	initial, err := m.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	sub := store.NewSubscription[[]models.Message]()
	sub.Publish(initial)

	fetch := func(ctx context.Context) ([]models.Message, bool, error) {
		n, err := m.chats.CountDocuments(ctx, bson.M{"_id": chatID})
		if err != nil {
			return nil, false, err
		}
		if n == 0 {
			return nil, false, nil
		}
		list, err := m.ListByChat(ctx, chatID)
		if err != nil {
			return nil, false, err
		}
		return list, true, nil
	}
	go runWatch(ctx, m.c, bson.M{"fullDocument.chat_id": chatID}, sub, fetch, m.log)
	return sub, nil
}
