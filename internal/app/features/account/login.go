// internal/app/features/account/login.go
package account

import (
	"errors"
	"net/http"
	"strings"

	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin checks the password and signs the user in. A missing
// profile and a wrong password answer the same way so the endpoint
// cannot be used to probe which emails are registered.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	p, err := h.Profiles.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, fault.ErrNotFound) {
			httpjson.Error(w, fault.ErrUnauthenticated)
			return
		}
		h.Log.Error("profile lookup failed", zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	// Google-only profiles have no password hash; bcrypt rejects the
	// empty hash, which is the answer we want.
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, fault.ErrUnauthenticated)
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:       p.ID.Hex(),
		Username: p.Username,
		Email:    p.Email,
	}); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, p)
}
