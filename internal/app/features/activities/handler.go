// internal/app/features/activities/handler.go

// Package activities is the HTTP surface of the activity lifecycle:
// the public feed, hosting, join requests, and the host's verdicts.
package activities

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the dependency container for the activities feature.
type Handler struct {
	Svc *lifecycle.Service
	Log *zap.Logger
}

// NewHandler constructs the activities Handler.
func NewHandler(svc *lifecycle.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// urlID parses a chi URL parameter as an ObjectID. A malformed id gets
// the same answer as a missing record so the two are indistinguishable
// to a client probing ids.
func urlID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, fault.ErrNotFound
	}
	return id, nil
}
