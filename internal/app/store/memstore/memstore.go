// internal/app/store/memstore/memstore.go

// Package memstore is the in-memory entity store. It backs the test
// suite and the storage_backend=memory dev mode with the same contract
// the Mongo store honors, including the conditional resolve, the unique
// (activity, user) request constraint, and fanout subscriptions.
package memstore

import (
	"sync"
	"time"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one mutex. Collection views share
// it, so cross-collection invariants (request uniqueness vs. concurrent
// inserts) hold without extra coordination.
type Store struct {
	mu sync.RWMutex

	activities map[primitive.ObjectID]models.Activity
	requests   map[primitive.ObjectID]models.JoinRequest
	requestKey map[requestKey]primitive.ObjectID
	chats      map[primitive.ObjectID]models.Chat
	messages   map[primitive.ObjectID][]models.Message
	profiles   map[primitive.ObjectID]models.Profile

	chatSubs map[primitive.ObjectID][]*store.Subscription[models.Chat]
	msgSubs  map[primitive.ObjectID][]*store.Subscription[[]models.Message]

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

type requestKey struct {
	activityID primitive.ObjectID
	userID     primitive.ObjectID
}

// New builds an empty in-memory store.
func New() *Store {
	return &Store{
		activities: make(map[primitive.ObjectID]models.Activity),
		requests:   make(map[primitive.ObjectID]models.JoinRequest),
		requestKey: make(map[requestKey]primitive.ObjectID),
		chats:      make(map[primitive.ObjectID]models.Chat),
		messages:   make(map[primitive.ObjectID][]models.Message),
		profiles:   make(map[primitive.ObjectID]models.Profile),
		chatSubs:   make(map[primitive.ObjectID][]*store.Subscription[models.Chat]),
		msgSubs:    make(map[primitive.ObjectID][]*store.Subscription[[]models.Message]),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the timestamp source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Stores returns the collection views bundled for injection.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Activities: &activities{s},
		Requests:   &requests{s},
		Chats:      &chats{s},
		Messages:   &messages{s},
		Profiles:   &profiles{s},
	}
}

/* ------------------------------ fanout ------------------------------ */

// publishChat must run with s.mu held. Dead subscribers (canceled or
// hopelessly behind) are dropped and closed in place.
func (s *Store) publishChat(id primitive.ObjectID, c models.Chat) {
	subs := s.chatSubs[id]
	live := subs[:0]
	for _, sub := range subs {
		if sub.Publish(copyChat(c)) {
			live = append(live, sub)
		} else {
			sub.Close()
		}
	}
	s.chatSubs[id] = live
}

// publishMessages must run with s.mu held.
func (s *Store) publishMessages(chatID primitive.ObjectID) {
	subs := s.msgSubs[chatID]
	if len(subs) == 0 {
		return
	}
	snapshot := copyMessages(s.messages[chatID])
	live := subs[:0]
	for _, sub := range subs {
		if sub.Publish(snapshot) {
			live = append(live, sub)
		} else {
			sub.Close()
		}
	}
	s.msgSubs[chatID] = live
}

// closeChatStreams ends every subscription scoped to a deleted chat.
// Must run with s.mu held.
func (s *Store) closeChatStreams(id primitive.ObjectID) {
	for _, sub := range s.chatSubs[id] {
		sub.Cancel()
		sub.Close()
	}
	delete(s.chatSubs, id)
	for _, sub := range s.msgSubs[id] {
		sub.Cancel()
		sub.Close()
	}
	delete(s.msgSubs, id)
}

/* ------------------------------ copies ------------------------------ */

// Records handed to subscribers or callers never alias internal slices.

func copyChat(c models.Chat) models.Chat {
	out := c
	out.Participants = append([]primitive.ObjectID(nil), c.Participants...)
	return out
}

func copyMessages(ms []models.Message) []models.Message {
	return append([]models.Message(nil), ms...)
}
