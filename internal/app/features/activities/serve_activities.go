// internal/app/features/activities/serve_activities.go
package activities

import (
	"context"
	"net/http"

	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type activityInput struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	MaxParticipants int    `json:"max_participants"`
}

func (in activityInput) toInput() lifecycle.ActivityInput {
	return lifecycle.ActivityInput{
		Title:           in.Title,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		MaxParticipants: in.MaxParticipants,
	}
}

// ServeFeed handles GET /api/activities: every live activity, newest
// first.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.Svc.Feed(r.Context())
	if err != nil {
		h.Log.Error("feed load failed", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, feed)
}

// ServeCreate handles POST /api/activities.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var in activityInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}

	a, err := h.Svc.CreateActivity(r.Context(), viewer, in.toInput())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, a)
}

// ServeView handles GET /api/activities/{activityID}. The response is
// viewer-relative: hosts additionally see the request queue.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.Svc.ViewActivity(r.Context(), viewer, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, view)
}

// ServeEdit handles PUT /api/activities/{activityID}. Host only.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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

	var in activityInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, err)
		return
	}

	a, err := h.Svc.EditActivity(r.Context(), viewer, id, in.toInput())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, a)
}

// ServeEnd handles DELETE /api/activities/{activityID}. Host only;
// ending an already-ended activity succeeds.
func (h *Handler) ServeEnd(w http.ResponseWriter, r *http.Request) {
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

	// The cascade touches four collections; give it more room than a
	// single read.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Svc.EndActivity(ctx, viewer, id); err != nil {
		h.Log.Error("end activity failed",
			zap.String("activity_id", id.Hex()),
			zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
