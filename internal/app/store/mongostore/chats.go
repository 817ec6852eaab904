// internal/app/store/mongostore/chats.go
package mongostore

import (
	"context"
	"errors"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type chats struct {
	c   *mongo.Collection
	log *zap.Logger
}

func (ch *chats) Insert(ctx context.Context, chat models.Chat) error {
	_, err := ch.c.InsertOne(ctx, chat)
	return err
}

func (ch *chats) GetByID(ctx context.Context, id primitive.ObjectID) (models.Chat, error) {
	var chat models.Chat
	err := ch.c.FindOne(ctx, bson.M{"_id": id}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Chat{}, fault.ErrNotFound
	}
	if err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// AddParticipant relies on $addToSet so concurrent accepts are a server
// side set-union; no read-modify-write, no lost members.
func (ch *chats) AddParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error {
	res, err := ch.c.UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{"$addToSet": bson.M{"participants": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fault.ErrNotFound
	}
	return nil
}

func (ch *chats) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := ch.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Watch streams the chat document. The initial snapshot is published
// before the watcher goroutine starts, so a subscriber always sees the
// current state first.
func (ch *chats) Watch(ctx context.Context, id primitive.ObjectID) (*store.Subscription[models.Chat], error) {
	initial, err := ch.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sub := store.NewSubscription[models.Chat]()
	sub.Publish(initial)

	fetch := func(ctx context.Context) (models.Chat, bool, error) {
		chat, err := ch.GetByID(ctx, id)
		if errors.Is(err, fault.ErrNotFound) {
			return models.Chat{}, false, nil
		}
		if err != nil {
			return models.Chat{}, false, err
		}
		return chat, true, nil
	}
	go runWatch(ctx, ch.c, bson.M{"documentKey._id": id}, sub, fetch, ch.log)
	return sub, nil
}
