// internal/app/features/authgoogle/serve_flow.go
package authgoogle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/htmlsanitize"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.uber.org/zap"
)

// ServeLogin handles GET /auth/google/login: stamp a state nonce into a
// signed cookie and send the browser to Google.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("google login requested but not configured")
		h.redirectWithError(w, r, "google_unavailable")
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("state generation failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}

	encoded, err := h.state.Encode(stateCookieName, state)
	if err != nil {
		h.Log.Error("state cookie encode failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    encoded,
		Path:     "/auth/google",
		MaxAge:   stateCookieAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.BaseURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusSeeOther)
}

// ServeCallback handles GET /auth/google/callback: validate the state,
// exchange the code, then sign the matching profile in (creating one on
// first login).
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		h.Log.Info("google login declined", zap.String("error", errCode))
		h.redirectWithError(w, r, "google_declined")
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		h.redirectWithError(w, r, "state_missing")
		return
	}
	var want string
	if err := h.state.Decode(stateCookieName, cookie.Value, &want); err != nil {
		h.Log.Warn("state cookie decode failed", zap.Error(err))
		h.redirectWithError(w, r, "state_invalid")
		return
	}
	if got := r.URL.Query().Get("state"); got == "" || got != want {
		h.redirectWithError(w, r, "state_mismatch")
		return
	}
	// One shot per nonce.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/auth/google", MaxAge: -1})

	token, err := h.OAuth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.Log.Warn("code exchange failed", zap.Error(err))
		h.redirectWithError(w, r, "exchange_failed")
		return
	}

	info, err := fetchGoogleUserInfo(r.Context(), token)
	if err != nil {
		h.Log.Error("userinfo fetch failed", zap.Error(err))
		h.redirectWithError(w, r, "userinfo_failed")
		return
	}
	if info.Email == "" || !info.VerifiedEmail {
		h.redirectWithError(w, r, "email_unverified")
		return
	}

	p, err := h.findOrCreateProfile(r.Context(), info)
	if err != nil {
		h.Log.Error("profile resolution failed",
			zap.String("email", info.Email),
			zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}

	if err := auth.SignIn(w, r, auth.SessionUser{
		ID:       p.ID.Hex(),
		Username: p.Username,
		Email:    p.Email,
	}); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		h.redirectWithError(w, r, "internal")
		return
	}

	http.Redirect(w, r, h.BaseURL+"/", http.StatusSeeOther)
}

// findOrCreateProfile maps a Google identity onto a profile by email.
// First login creates the profile; the username is derived from the
// Google display name and uniquified on collision.
func (h *Handler) findOrCreateProfile(ctx context.Context, info *googleUserInfo) (models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(info.Email))

	p, err := h.Profiles.GetByEmail(ctx, email)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, fault.ErrNotFound) {
		return models.Profile{}, err
	}

	base := htmlsanitize.CleanField(info.Name)
	if base == "" {
		base = strings.SplitN(email, "@", 2)[0]
	}

	for attempt := 0; attempt < 4; attempt++ {
		username := base
		if attempt > 0 {
			suffix, err := generateState()
			if err != nil {
				return models.Profile{}, err
			}
			username = fmt.Sprintf("%s-%s", base, suffix[:4])
		}

		p, err = h.Profiles.Insert(ctx, models.Profile{
			Username:     username,
			Name:         htmlsanitize.CleanField(info.Name),
			Email:        email,
			ProfileImage: info.Picture,
			AuthMethod:   models.AuthMethodGoogle,
		})
		if err == nil {
			h.Log.Info("profile created via google",
				zap.String("profile_id", p.ID.Hex()),
				zap.String("username", p.Username))
			return p, nil
		}
		var verr *fault.ValidationError
		if !errors.As(err, &verr) || verr.Field != "username" {
			return models.Profile{}, err
		}
	}
	return models.Profile{}, fmt.Errorf("could not derive a free username for %s", email)
}

// redirectWithError sends the browser back to the client with an error
// code it can surface.
func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.BaseURL+"/login?error="+code, http.StatusSeeOther)
}
