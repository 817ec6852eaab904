// internal/app/features/activities/routes.go
package activities

import "github.com/go-chi/chi/v5"

// Routes mounts the activity endpoints. The caller wraps the router in
// the signed-in gate.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeFeed)
	r.Post("/", h.ServeCreate)

	r.Get("/{activityID}", h.ServeView)
	r.Put("/{activityID}", h.ServeEdit)
	r.Delete("/{activityID}", h.ServeEnd)
	r.Post("/{activityID}/requests", h.ServeRequestJoin)

	r.Post("/requests/{requestID}/accept", h.ServeAccept)
	r.Post("/requests/{requestID}/reject", h.ServeReject)

	return r
}
