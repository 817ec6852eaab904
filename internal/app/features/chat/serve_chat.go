// internal/app/features/chat/serve_chat.go
package chat

import (
	"net/http"

	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/app/system/wstoken"
	"go.uber.org/zap"
)

// ServeView handles GET /api/chats/{activityID}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	id, err := urlID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	view, err := h.Svc.ViewChat(r.Context(), viewer, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, view)
}

// ServeMessages handles GET /api/chats/{activityID}/messages.
func (h *Handler) ServeMessages(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	id, err := urlID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	msgs, err := h.Svc.Messages(r.Context(), viewer, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, msgs)
}

type sendRequest struct {
	Body string `json:"body"`
}

// ServeSend handles POST /api/chats/{activityID}/messages.
func (h *Handler) ServeSend(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	id, err := urlID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req sendRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	msg, err := h.Svc.SendMessage(r.Context(), viewer, id, req.Body)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusCreated, msg)
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ServeToken handles POST /api/chats/{activityID}/token. The session
// cookie authenticates this call; the returned token authenticates the
// websocket handshake that follows.
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	viewer, err := auth.RequireUserID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	id, err := urlID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	// Access is checked now so a denied viewer never holds a token.
	if _, err := h.Svc.ViewChat(r.Context(), viewer, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	token, err := h.Tokens.Issue(viewer.Hex(), id.Hex())
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresIn: int(wstoken.TTL.Seconds()),
	})
}
