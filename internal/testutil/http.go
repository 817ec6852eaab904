// internal/testutil/http.go
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/domain/models"
)

// WithUser injects the profile's identity into the request context,
// bypassing the session middleware.
func WithUser(r *http.Request, p models.Profile) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       p.ID.Hex(),
		Username: p.Username,
		Email:    p.Email,
	})
}

// NewRequest creates a bodyless HTTP request for handler tests.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rd)
	r.Header.Set("Content-Type", "application/json")
	return r
}
