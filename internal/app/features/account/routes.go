// internal/app/features/account/routes.go
package account

import "github.com/go-chi/chi/v5"

// Routes mounts the account endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.ServeSignup)
	r.Post("/login", h.ServeLogin)
	r.Post("/logout", h.ServeLogout)
	return r
}
