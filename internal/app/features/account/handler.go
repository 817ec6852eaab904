// internal/app/features/account/handler.go

// Package account implements password signup, login, and logout.
package account

import (
	"github.com/seeyou-app/seeyou/internal/app/store"
	"go.uber.org/zap"
)

// Field limits enforced at signup, matching the client-side form.
const (
	UsernameMinLen = 3
	PasswordMinLen = 6
)

// Handler is the dependency container for the account feature.
type Handler struct {
	Profiles store.Profiles
	Log      *zap.Logger
}

// NewHandler constructs the account Handler.
func NewHandler(profiles store.Profiles, logger *zap.Logger) *Handler {
	return &Handler{Profiles: profiles, Log: logger}
}
