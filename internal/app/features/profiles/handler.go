// internal/app/features/profiles/handler.go

// Package profiles serves the signed-in user's own profile: reading it,
// editing it, and the personal activity dashboard.
package profiles

import (
	"github.com/go-chi/chi/v5"
	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"go.uber.org/zap"
)

// UsernameMinLen matches the signup rule; edits cannot shrink a
// username below it.
const UsernameMinLen = 3

// Handler is the dependency container for the profiles feature.
type Handler struct {
	Svc      *lifecycle.Service
	Profiles store.Profiles
	Log      *zap.Logger
}

// NewHandler constructs the profiles Handler.
func NewHandler(svc *lifecycle.Service, profiles store.Profiles, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Profiles: profiles, Log: logger}
}

// Routes mounts the profile endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.ServeMe)
	r.Patch("/me", h.ServeUpdate)
	r.Get("/me/activities", h.ServeActivities)
	return r
}
