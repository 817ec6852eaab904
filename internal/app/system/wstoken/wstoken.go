// internal/app/system/wstoken/wstoken.go

// Package wstoken issues short-lived JWTs for websocket upgrades.
// Browsers cannot attach the session cookie to a cross-origin websocket
// handshake reliably, so the client first asks the HTTP API (where the
// cookie works) for a token, then presents it as a query parameter on
// the ws:// URL. Tokens are scoped to one chat and expire quickly.
package wstoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
)

// TTL is the token lifetime. Long enough to complete a handshake, short
// enough that a leaked URL goes stale fast.
const TTL = 2 * time.Minute

const issuer = "seeyou"

// Claims ties a token to one user and one chat.
type Claims struct {
	UserID string `json:"user_id"`
	ChatID string `json:"chat_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies websocket tokens with an HMAC key.
type Issuer struct {
	key []byte
}

// New builds an Issuer. The key must not be empty.
func New(key []byte) (*Issuer, error) {
	if len(key) == 0 {
		return nil, errors.New("wstoken: empty signing key")
	}
	return &Issuer{key: key}, nil
}

// Issue signs a token authorizing userID to open chatID's stream.
func (i *Issuer) Issue(userID, chatID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		ChatID: chatID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
}

// Verify checks the signature, expiry, and issuer, and returns the
// claims. Every failure mode comes back as fault.ErrUnauthenticated;
// the handshake either succeeds or it does not.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fault.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fault.ErrUnauthenticated
	}
	return claims, nil
}
