// internal/app/store/mongostore/mongostore.go

// Package mongostore is the MongoDB implementation of the store
// contract. Each collection gets its own file; driver errors are
// translated into fault values at this boundary.
//
// Collections:
//   - activities        one document per live activity
//   - activity_requests one document per (activity, user) join request
//   - chats             one document per activity, _id == activity _id
//   - messages          append-only chat lines, keyed by chat_id
//   - profiles          one document per identity
package mongostore

import (
	"time"

	"github.com/seeyou-app/seeyou/internal/app/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collection names, shared with the index builder.
const (
	CollActivities = "activities"
	CollRequests   = "activity_requests"
	CollChats      = "chats"
	CollMessages   = "messages"
	CollProfiles   = "profiles"
)

// watchPollInterval is the fallback cadence when the deployment does
// not support change streams (standalone mongod).
const watchPollInterval = 2 * time.Second

// Store binds the per-collection stores to one database.
type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

// New wraps db. A nil logger is replaced with a no-op.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, log: logger}
}

// Stores exposes the collection stores behind the shared interfaces.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Activities: &activities{c: s.db.Collection(CollActivities)},
		Requests:   &requests{c: s.db.Collection(CollRequests)},
		Chats:      &chats{c: s.db.Collection(CollChats), log: s.log},
		Messages:   &messages{c: s.db.Collection(CollMessages), chats: s.db.Collection(CollChats), log: s.log},
		Profiles:   &profiles{c: s.db.Collection(CollProfiles)},
	}
}
