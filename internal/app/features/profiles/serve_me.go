// internal/app/features/profiles/serve_me.go
package profiles

import (
	"net/http"
	"strings"

	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/htmlsanitize"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.uber.org/zap"
)

// ServeMe handles GET /api/profile/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	p, err := h.Profiles.GetByID(r.Context(), viewer)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, p)
}

type updateRequest struct {
	Username     *string `json:"username"`
	ProfileImage *string `json:"profile_image"`
}

// ServeUpdate handles PATCH /api/profile/me. Absent fields are left
// unchanged; an empty profile_image clears the image.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	patch := store.ProfilePatch{}
	if req.Username != nil {
		username := htmlsanitize.CleanField(*req.Username)
		if len(username) < UsernameMinLen {
			httpjson.Error(w, fault.Validationf("username", "username must be at least %d characters", UsernameMinLen))
			return
		}
		patch.Username = &username
	}
	if req.ProfileImage != nil {
		img := strings.TrimSpace(*req.ProfileImage)
		if err := validateImage(img); err != nil {
			httpjson.Error(w, err)
			return
		}
		patch.ProfileImage = &img
	}
	if patch.Username == nil && patch.ProfileImage == nil {
		httpjson.Error(w, fault.Validationf("body", "nothing to update"))
		return
	}

	if err := h.Profiles.Update(r.Context(), viewer, patch); err != nil {
		httpjson.Error(w, err)
		return
	}

	p, err := h.Profiles.GetByID(r.Context(), viewer)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	h.Log.Info("profile updated", zap.String("profile_id", viewer.Hex()))
	httpjson.Respond(w, http.StatusOK, p)
}

// validateImage accepts an inline data URL of bounded size, or the
// empty string to clear the image.
func validateImage(img string) error {
	if img == "" {
		return nil
	}
	if !strings.HasPrefix(img, "data:image/") || !strings.Contains(img, ";base64,") {
		return fault.Validationf("profile_image", "image must be an inline data URL")
	}
	payload := img[strings.Index(img, ";base64,")+len(";base64,"):]
	if len(payload)/4*3 > models.ProfileImageMaxBytes {
		return fault.Validationf("profile_image", "image exceeds %d bytes", models.ProfileImageMaxBytes)
	}
	return nil
}

// dashboardResponse joins the viewer's activity buckets with summary
// counts, mirroring the profile page's needs in one round trip.
type dashboardResponse struct {
	Activities lifecycle.UserActivities `json:"activities"`
	Stats      lifecycle.Stats          `json:"stats"`
}

// ServeActivities handles GET /api/profile/me/activities.
func (h *Handler) ServeActivities(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	acts, err := h.Svc.ActivitiesFor(r.Context(), viewer)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	stats, err := h.Svc.StatsFor(r.Context(), viewer)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, dashboardResponse{Activities: acts, Stats: stats})
}
