// internal/app/store/memstore/chats.go
package memstore

import (
	"context"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type chats struct {
	s *Store
}

func (c *chats) Insert(ctx context.Context, chat models.Chat) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = c.s.now()
	}
	c.s.chats[chat.ID] = copyChat(chat)
	return nil
}

func (c *chats) GetByID(ctx context.Context, id primitive.ObjectID) (models.Chat, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	chat, ok := c.s.chats[id]
	if !ok {
		return models.Chat{}, fault.ErrNotFound
	}
	return copyChat(chat), nil
}

// AddParticipant is a set-union under the store lock: two concurrent
// accepts for different users both land, and re-adding a present user
// is a no-op.
func (c *chats) AddParticipant(ctx context.Context, chatID, userID primitive.ObjectID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	chat, ok := c.s.chats[chatID]
	if !ok {
		return fault.ErrNotFound
	}
	if chat.HasParticipant(userID) {
		return nil
	}
	chat.Participants = append(chat.Participants, userID)
	c.s.chats[chatID] = chat
	c.s.publishChat(chatID, chat)
	return nil
}

func (c *chats) Delete(ctx context.Context, id primitive.ObjectID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.chats[id]; ok {
		delete(c.s.chats, id)
		c.s.closeChatStreams(id)
	}
	return nil
}

func (c *chats) Watch(ctx context.Context, id primitive.ObjectID) (*store.Subscription[models.Chat], error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	chat, ok := c.s.chats[id]
	if !ok {
		return nil, fault.ErrNotFound
	}
	sub := store.NewSubscription[models.Chat]()
	sub.Publish(copyChat(chat))
	c.s.chatSubs[id] = append(c.s.chatSubs[id], sub)
	return sub, nil
}
