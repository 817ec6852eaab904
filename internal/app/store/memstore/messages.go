// internal/app/store/memstore/messages.go
package memstore

import (
	"context"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type messages struct {
	s *Store
}

// Append assigns the ID and timestamp under the lock, so the slice
// order is the (created_at, _id) order readers see.
func (m *messages) Append(ctx context.Context, msg models.Message) (models.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = m.s.now()
	m.s.messages[msg.ChatID] = append(m.s.messages[msg.ChatID], msg)
	m.s.publishMessages(msg.ChatID)
	return msg, nil
}

func (m *messages) ListByChat(ctx context.Context, chatID primitive.ObjectID) ([]models.Message, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	return copyMessages(m.s.messages[chatID]), nil
}

func (m *messages) DeleteByChat(ctx context.Context, chatID primitive.ObjectID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	n := int64(len(m.s.messages[chatID]))
	if n > 0 {
		delete(m.s.messages, chatID)
		m.s.publishMessages(chatID)
	}
	return n, nil
}

func (m *messages) Watch(ctx context.Context, chatID primitive.ObjectID) (*store.Subscription[[]models.Message], error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.chats[chatID]; !ok {
		return nil, fault.ErrNotFound
	}
	sub := store.NewSubscription[[]models.Message]()
	sub.Publish(copyMessages(m.s.messages[chatID]))
	m.s.msgSubs[chatID] = append(m.s.msgSubs[chatID], sub)
	return sub, nil
}
