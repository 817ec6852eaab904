// internal/app/features/account/signup.go
package account

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/htmlsanitize"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeSignup creates a profile and signs the new user in.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	username := htmlsanitize.CleanField(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(username) < UsernameMinLen {
		httpjson.Error(w, fault.Validationf("username", "username must be at least %d characters", UsernameMinLen))
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		httpjson.Error(w, fault.Validationf("email", "email address is invalid"))
		return
	}
	if len(req.Password) < PasswordMinLen {
		httpjson.Error(w, fault.Validationf("password", "password must be at least %d characters", PasswordMinLen))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.Error(w, err)
		return
	}

	p, err := h.Profiles.Insert(r.Context(), models.Profile{
		Username:     username,
		Email:        email,
		AuthMethod:   models.AuthMethodPassword,
		PasswordHash: string(hash),
	})
	if err != nil {
		httpjson.Error(w, err)
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

	h.Log.Info("profile created",
		zap.String("profile_id", p.ID.Hex()),
		zap.String("username", p.Username))
	httpjson.Respond(w, http.StatusCreated, p)
}
