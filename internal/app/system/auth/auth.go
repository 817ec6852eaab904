// internal/app/system/auth/auth.go

// Package auth manages the signed-in identity. A gorilla cookie session
// carries the profile id between requests; LoadSessionUser lifts it into
// the request context and RequireSignedIn gates the API routes behind
// it. The API is JSON-only, so an unauthenticated request gets a 401
// body rather than a login redirect.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// DefaultSessionName is used unless the config overrides it.
	DefaultSessionName = "seeyou-session"

	isAuthKey   = "is_authenticated"
	userIDKey   = "user_id"
	usernameKey = "username"
	emailKey    = "email"
)

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

// sessionName is fixed at init time.
var sessionName = DefaultSessionName

// SessionUser is the identity cached in the session and injected into
// r.Context().
type SessionUser struct {
	ID       string
	Username string
	Email    string
}

// ObjectID parses the cached profile id.
func (u *SessionUser) ObjectID() (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(u.ID)
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// LoadSessionUser injects the user into context if they are signed in.
// A nil Store (tests that bypass sessions) is a no-op.
func LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Store == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, _ := Store.Get(r, sessionName)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:       getString(sess, userIDKey),
				Username: getString(sess, usernameKey),
				Email:    getString(sess, emailKey),
			}
			r = WithTestUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser) and answers 401 JSON otherwise.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"unauthenticated"}`)
	})
}

// SignIn writes the user into a fresh session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	if Store == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, _ := Store.Get(r, sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[usernameKey] = u.Username
	sess.Values[emailKey] = u.Email
	return sess.Save(r, w)
}

// SignOut clears the session cookie. Signing out while signed out is
// fine.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, sessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// InitSessionStore initializes the global session Store. The secure
// flag controls the cookie's Secure attribute and SameSite mode: None
// for cross-site HTTPS use in production, Lax for http://localhost.
func InitSessionStore(sessionKey, name, domain string, secure bool, logger *zap.Logger) error {
	if sessionKey == "" {
		return fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name != "" {
		sessionName = name
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))
	return nil
}

// RequireUserID returns the signed-in user's profile id. Handlers
// behind RequireSignedIn can still hit the error path if the session
// carries a malformed id.
func RequireUserID(r *http.Request) (primitive.ObjectID, error) {
	u, ok := CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, fault.ErrUnauthenticated
	}
	id, err := u.ObjectID()
	if err != nil {
		return primitive.NilObjectID, fault.ErrUnauthenticated
	}
	return id, nil
}

// WithTestUser injects a user into the request context directly,
// bypassing the session cookie. Handler tests use this; LoadSessionUser
// uses it internally.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
