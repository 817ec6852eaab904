// internal/app/features/chat/handler.go

// Package chat is the HTTP and websocket surface of activity chats:
// chat metadata, message history, sending, and the live stream.
package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/system/wstoken"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler is the dependency container for the chat feature.
type Handler struct {
	Svc    *lifecycle.Service
	Tokens *wstoken.Issuer
	Log    *zap.Logger
}

// NewHandler constructs the chat Handler.
func NewHandler(svc *lifecycle.Service, tokens *wstoken.Issuer, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Tokens: tokens, Log: logger}
}

// Routes mounts the chat endpoints. Chats share their activity's id, so
// every path is keyed by activity id.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{activityID}", h.ServeView)
	r.Get("/{activityID}/messages", h.ServeMessages)
	r.Post("/{activityID}/messages", h.ServeSend)
	r.Post("/{activityID}/token", h.ServeToken)
	r.Get("/{activityID}/ws", h.ServeStream)
	return r
}

func urlID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "activityID"))
	if err != nil {
		return primitive.NilObjectID, fault.ErrNotFound
	}
	return id, nil
}
