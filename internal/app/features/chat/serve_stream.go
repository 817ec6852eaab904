// internal/app/features/chat/serve_stream.go
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/seeyou-app/seeyou/internal/app/store"
	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
	// inbound frames are tiny; messages are capped far below this.
	maxFrameBytes = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token in the query already gates the handshake; the API is
	// served cross-origin from the web client.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFrame is the envelope for every frame the server pushes.
type streamFrame struct {
	Type     string           `json:"type"`
	Chat     *models.Chat     `json:"chat,omitempty"`
	Messages []models.Message `json:"messages,omitempty"`
}

// inboundFrame is what the client may send over the socket.
type inboundFrame struct {
	Type string `json:"type"`
	Body string `json:"body,omitempty"`
}

// ServeStream handles GET /api/chats/{activityID}/ws. The handshake is
// authenticated by a wstoken in the token query parameter, not the
// session cookie. Once open, the server pushes full chat and message
// snapshots on every change; the client may push messages back.
func (h *Handler) ServeStream(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	claims, err := h.Tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if claims.ChatID != id.Hex() {
		httpjson.Error(w, fault.ErrUnauthenticated)
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		httpjson.Error(w, fault.ErrUnauthenticated)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Authorization happens inside the watch calls; a revoked membership
	// fails here even with a valid token.
	chatSub, err := h.Svc.WatchChat(ctx, userID, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	defer chatSub.Cancel()

	msgSub, err := h.Svc.WatchMessages(ctx, userID, id)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	defer msgSub.Cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	go h.readPump(ctx, cancel, conn, userID, id)
	h.writePump(ctx, conn, chatSub, msgSub)
}

// readPump consumes client frames until the connection drops. Inbound
// chat messages are persisted through the same path as the HTTP send;
// the delivery back to this client rides the message subscription.
func (h *Handler) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, userID, activityID primitive.ObjectID) {
	defer cancel()

	conn.SetReadLimit(maxFrameBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var in inboundFrame
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}
		if in.Type != "message" || in.Body == "" {
			continue
		}
		if _, err := h.Svc.SendMessage(ctx, userID, activityID, in.Body); err != nil {
			h.Log.Debug("websocket send rejected",
				zap.String("activity_id", activityID.Hex()),
				zap.Error(err))
		}
	}
}

// writePump pushes snapshots and pings until a subscription closes or
// the write side fails. A closed subscription means the chat is gone
// (activity ended) or this consumer fell behind; either way the socket
// closes.
func (h *Handler) writePump(ctx context.Context, conn *websocket.Conn, chatSub *store.Subscription[models.Chat], msgSub *store.Subscription[[]models.Message]) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	writeFrame := func(f streamFrame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(f) == nil
	}

	for {
		select {
		case chat, ok := <-chatSub.Updates():
			if !ok {
				h.closeSocket(conn)
				return
			}
			if !writeFrame(streamFrame{Type: "chat", Chat: &chat}) {
				return
			}
		case msgs, ok := <-msgSub.Updates():
			if !ok {
				h.closeSocket(conn)
				return
			}
			if msgs == nil {
				msgs = []models.Message{}
			}
			if !writeFrame(streamFrame{Type: "messages", Messages: msgs}) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) closeSocket(conn *websocket.Conn) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "chat closed"))
}
