// internal/app/features/activities/handler_test.go
package activities_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/seeyou-app/seeyou/internal/app/features/activities"
	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/store/memstore"
	"github.com/seeyou-app/seeyou/internal/domain/models"
	"github.com/seeyou-app/seeyou/internal/testutil"
	"go.uber.org/zap"
)

type env struct {
	router chi.Router
	fx     *testutil.Fixtures
	svc    *lifecycle.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	stores := memstore.New().Stores()
	svc := lifecycle.New(stores, zap.NewNop())
	h := activities.NewHandler(svc, zap.NewNop())
	return &env{
		router: h.Routes(),
		fx:     testutil.NewFixtures(t, stores),
		svc:    svc,
	}
}

func (e *env) do(p models.Profile, method, target, body string) *httptest.ResponseRecorder {
	r := testutil.NewJSONRequest(method, target, body)
	r = testutil.WithUser(r, p)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func TestCreateAndFeed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")

	w := e.do(host, http.MethodPost, "/", `{"title":"Board games","description":"Casual night","max_participants":4}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created models.Activity
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Title != "Board games" || created.HostID != host.ID {
		t.Errorf("created = %+v", created)
	}
	if created.MaxParticipants != 4 {
		t.Errorf("max_participants = %d, want 4", created.MaxParticipants)
	}

	w = e.do(host, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("feed status = %d", w.Code)
	}
	var feed []models.Activity
	if err := json.NewDecoder(w.Body).Decode(&feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != created.ID {
		t.Errorf("feed = %+v", feed)
	}
}

func TestCreate_Validation(t *testing.T) {
	e := newEnv(t)
	host := e.fx.CreateProfile(context.Background(), "host")

	w := e.do(host, http.MethodPost, "/", `{"title":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
	var body struct {
		Field string `json:"field"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Field != "title" {
		t.Errorf("field = %q, want title", body.Field)
	}
}

func TestView_HostSeesRequests(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	bob := e.fx.CreateProfile(ctx, "bob")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")
	e.fx.CreateRequest(ctx, a.ID, bob.ID, models.RequestPending)

	w := e.do(host, http.MethodGet, "/"+a.ID.Hex(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var view struct {
		IsHost   bool `json:"is_host"`
		Requests []struct {
			Username string `json:"username"`
		} `json:"requests"`
	}
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !view.IsHost {
		t.Error("is_host = false for host")
	}
	if len(view.Requests) != 1 || view.Requests[0].Username != "bob" {
		t.Errorf("requests = %+v", view.Requests)
	}

	w = e.do(bob, http.MethodGet, "/"+a.ID.Hex(), "")
	var bobView struct {
		IsHost   bool `json:"is_host"`
		Requests []any `json:"requests"`
	}
	if err := json.NewDecoder(w.Body).Decode(&bobView); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bobView.IsHost || len(bobView.Requests) != 0 {
		t.Errorf("non-host view = %+v", bobView)
	}
}

func TestView_MalformedID(t *testing.T) {
	e := newEnv(t)
	host := e.fx.CreateProfile(context.Background(), "host")

	w := e.do(host, http.MethodGet, "/not-a-hex-id", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestJoinAndResolve(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	bob := e.fx.CreateProfile(ctx, "bob")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	w := e.do(bob, http.MethodPost, fmt.Sprintf("/%s/requests", a.ID.Hex()), "")
	if w.Code != http.StatusCreated {
		t.Fatalf("join status = %d: %s", w.Code, w.Body.String())
	}
	var req models.JoinRequest
	if err := json.NewDecoder(w.Body).Decode(&req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Status != models.RequestPending {
		t.Errorf("status = %q, want pending", req.Status)
	}

	// Duplicate request conflicts.
	if w := e.do(bob, http.MethodPost, fmt.Sprintf("/%s/requests", a.ID.Hex()), ""); w.Code != http.StatusConflict {
		t.Errorf("duplicate join status = %d, want %d", w.Code, http.StatusConflict)
	}

	// Only the host may resolve.
	acceptPath := fmt.Sprintf("/requests/%s/accept", req.ID.Hex())
	if w := e.do(bob, http.MethodPost, acceptPath, ""); w.Code != http.StatusForbidden {
		t.Errorf("requester accept status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w = e.do(host, http.MethodPost, acceptPath, "")
	if w.Code != http.StatusOK {
		t.Fatalf("accept status = %d: %s", w.Code, w.Body.String())
	}
	if err := json.NewDecoder(w.Body).Decode(&req); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if req.Status != models.RequestAccepted {
		t.Errorf("status = %q, want accepted", req.Status)
	}

	// A second verdict conflicts.
	if w := e.do(host, http.MethodPost, fmt.Sprintf("/requests/%s/reject", req.ID.Hex()), ""); w.Code != http.StatusConflict {
		t.Errorf("re-resolve status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestEnd_Cascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	bob := e.fx.CreateProfile(ctx, "bob")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")
	e.fx.CreateRequest(ctx, a.ID, bob.ID, models.RequestPending)

	if w := e.do(bob, http.MethodDelete, "/"+a.ID.Hex(), ""); w.Code != http.StatusForbidden {
		t.Fatalf("non-host end status = %d, want %d", w.Code, http.StatusForbidden)
	}

	if w := e.do(host, http.MethodDelete, "/"+a.ID.Hex(), ""); w.Code != http.StatusNoContent {
		t.Fatalf("end status = %d", w.Code)
	}
	if w := e.do(host, http.MethodGet, "/"+a.ID.Hex(), ""); w.Code != http.StatusNotFound {
		t.Errorf("view after end status = %d, want %d", w.Code, http.StatusNotFound)
	}
	// Ending again converges.
	if w := e.do(host, http.MethodDelete, "/"+a.ID.Hex(), ""); w.Code != http.StatusNoContent {
		t.Errorf("second end status = %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestEdit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	host := e.fx.CreateProfile(ctx, "host")
	a := e.fx.CreateActivityWithChat(ctx, host.ID, "Hike")

	w := e.do(host, http.MethodPut, "/"+a.ID.Hex(), `{"title":"Long hike","description":"Bring water"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("edit status = %d: %s", w.Code, w.Body.String())
	}
	var got models.Activity
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "Long hike" || got.Description != "Bring water" {
		t.Errorf("edited = %+v", got)
	}
}
