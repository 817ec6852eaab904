// internal/app/features/activities/serve_requests.go
package activities

import (
	"net/http"

	"github.com/seeyou-app/seeyou/internal/app/policy/membership"
	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
)

// ServeRequestJoin handles POST /api/activities/{activityID}/requests.
func (h *Handler) ServeRequestJoin(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	id, err := urlID(r, "activityID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	req, err := h.Svc.RequestToJoin(r.Context(), viewer, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, req)
}

// ServeAccept handles POST /api/activities/requests/{requestID}/accept.
func (h *Handler) ServeAccept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, membership.ActionAccept)
}

// ServeReject handles POST /api/activities/requests/{requestID}/reject.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, membership.ActionReject)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, action membership.Action) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	id, err := urlID(r, "requestID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	req, err := h.Svc.ResolveRequest(r.Context(), viewer, id, action)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, req)
}
