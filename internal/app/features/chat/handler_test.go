// internal/app/features/chat/handler_test.go
package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/seeyou-app/seeyou/internal/app/features/chat"
	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/store/memstore"
	"github.com/seeyou-app/seeyou/internal/app/system/wstoken"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"github.com/seeyou-app/seeyou/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	router chi.Router
	fx     *testutil.Fixtures
	svc    *lifecycle.Service
	tokens *wstoken.Issuer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	stores := memstore.New().Stores()
	svc := lifecycle.New(stores, zap.NewNop())
	tokens, err := wstoken.New([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("wstoken.New: %v", err)
	}
	h := chat.NewHandler(svc, tokens, zap.NewNop())
	return &env{
		router: h.Routes(),
		fx:     testutil.NewFixtures(t, stores),
		svc:    svc,
		tokens: tokens,
	}
}

func (e *env) do(p models.Profile, method, target, body string) *httptest.ResponseRecorder {
	r := testutil.NewJSONRequest(method, target, body)
	r = testutil.WithUser(r, p)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func TestViewAndSend(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	bob := e.fx.CreateProfile(ctx, "bob")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	w := e.do(host, http.MethodGet, "/"+a.ID.Hex(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("view status = %d: %s", w.Code, w.Body.String())
	}
	var view struct {
		ActivityTitle    string `json:"activity_title"`
		ParticipantCount int    `json:"participant_count"`
		Participants     []struct {
			Username string `json:"username"`
		} `json:"participants"`
	}
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.ActivityTitle != "Hike" || view.ParticipantCount != 1 {
		t.Errorf("view = %+v", view)
	}
	if len(view.Participants) != 1 || view.Participants[0].Username != "host" {
		t.Errorf("participants = %+v", view.Participants)
	}

	// Strangers are locked out of every chat endpoint.
	if w := e.do(bob, http.MethodGet, "/"+a.ID.Hex(), ""); w.Code != http.StatusForbidden {
		t.Errorf("stranger view status = %d, want %d", w.Code, http.StatusForbidden)
	}
	if w := e.do(bob, http.MethodPost, "/"+a.ID.Hex()+"/messages", `{"body":"hi"}`); w.Code != http.StatusForbidden {
		t.Errorf("stranger send status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = e.do(host, http.MethodPost, "/"+a.ID.Hex()+"/messages", `{"body":"  hello  "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("send status = %d: %s", w.Code, w.Body.String())
	}
	var msg models.Message
	if err := json.NewDecoder(w.Body).Decode(&msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Message != "hello" || msg.Username != "host" {
		t.Errorf("msg = %+v", msg)
	}

	w = e.do(host, http.MethodGet, "/"+a.ID.Hex()+"/messages", "")
	var msgs []models.Message
	if err := json.NewDecoder(w.Body).Decode(&msgs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != msg.ID {
		t.Errorf("history = %+v", msgs)
	}
}

func TestToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	bob := e.fx.CreateProfile(ctx, "bob")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	w := e.do(host, http.MethodPost, "/"+a.ID.Hex()+"/token", "")
	if w.Code != http.StatusOK {
		t.Fatalf("token status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	claims, err := e.tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != host.ID.Hex() || claims.ChatID != a.ID.Hex() {
		t.Errorf("claims = %+v", claims)
	}

	// No access, no token.
	if w := e.do(bob, http.MethodPost, "/"+a.ID.Hex()+"/token", ""); w.Code != http.StatusForbidden {
		t.Errorf("stranger token status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type frame struct {
	Type     string           `json:"type"`
	Chat     *models.Chat     `json:"chat"`
	Messages []models.Message `json:"messages"`
}

// readFrameOfType skips interleaved frames of the other type; the
// initial chat and messages snapshots arrive in either order.
func readFrameOfType(t *testing.T, conn *websocket.Conn, typ string) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := 0; i < 10; i++ {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		if f.Type == typ {
			return f
		}
	}
	t.Fatalf("no %q frame arrived", typ)
	return frame{}
}

func TestStream(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	token, err := e.tokens.Issue(host.ID.Hex(), a.ID.Hex())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	conn := dialWS(t, srv, "/"+a.ID.Hex()+"/ws?token="+token)

	f := readFrameOfType(t, conn, "messages")
	if len(f.Messages) != 0 {
		t.Errorf("initial messages = %+v", f.Messages)
	}

	// A message pushed over the socket comes back in a snapshot.
	if err := conn.WriteJSON(map[string]string{"type": "message", "body": "hello"}); err != nil {
		t.Fatalf("write inbound: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		f = readFrameOfType(t, conn, "messages")
		if len(f.Messages) == 1 && f.Messages[0].Message == "hello" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("message never arrived; last frame %+v", f)
		}
	}
	if f.Messages[0].Username != "host" {
		t.Errorf("username = %q, want host", f.Messages[0].Username)
	}
}

func TestStream_BadToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + a.ID.Hex() + "/ws?token=garbage"
	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("dial with bad token succeeded")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		code := 0
		if resp != nil {
			code = resp.StatusCode
		}
		t.Errorf("handshake status = %d, want %d", code, http.StatusUnauthorized)
	}
}

func TestStream_TokenForOtherChat(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")
	b := e.fx.CreateActivityWithChat(ctx, host.ID, "Ride")

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	token, err := e.tokens.Issue(host.ID.Hex(), b.ID.Hex())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + a.ID.Hex() + "/ws?token=" + token
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("token scoped to another chat was accepted")
	}
}

func TestStream_ClosesWhenActivityEnds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	srv := httptest.NewServer(e.router)
	defer srv.Close()

	token, err := e.tokens.Issue(host.ID.Hex(), a.ID.Hex())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	conn := dialWS(t, srv, "/"+a.ID.Hex()+"/ws?token="+token)
	readFrameOfType(t, conn, "messages")

	if err := e.svc.EndActivity(ctx, host.ID, a.ID); err != nil {
		t.Fatalf("EndActivity: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return
			}
			t.Fatalf("socket ended with %v, want normal closure", err)
		}
	}
}
