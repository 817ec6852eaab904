// internal/app/features/account/logout.go
package account

import (
	"net/http"

	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// ServeLogout clears the session. Always succeeds.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	httpjson.Respond(w, http.StatusNoContent, nil)
}
