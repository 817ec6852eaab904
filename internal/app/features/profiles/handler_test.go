// internal/app/features/profiles/handler_test.go
package profiles_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/seeyou-app/seeyou/internal/app/features/profiles"
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
	h := profiles.NewHandler(svc, stores.Profiles, zap.NewNop())
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

func TestMe(t *testing.T) {
	e := newEnv(t)
	ana := e.fx.CreateProfile(context.Background(), "ana")

	w := e.do(ana, http.MethodGet, "/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var got models.Profile
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Username != "ana" || got.ID != ana.ID {
		t.Errorf("profile = %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	e := newEnv(t)
	ana := e.fx.CreateProfile(context.Background(), "ana")

	w := e.do(ana, http.MethodPatch, "/me", `{"username":"  ana-maria  "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var got models.Profile
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Username != "ana-maria" {
		t.Errorf("username = %q, want ana-maria", got.Username)
	}
}

func TestUpdate_Validation(t *testing.T) {
	e := newEnv(t)
	ana := e.fx.CreateProfile(context.Background(), "ana")

	tests := []struct {
		name string
		body string
	}{
		{"empty patch", `{}`},
		{"short username", `{"username":"ab"}`},
		{"image not a data url", `{"profile_image":"https://example.com/pic.png"}`},
		{"image wrong mime", `{"profile_image":"data:text/html;base64,PGI+"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := e.do(ana, http.MethodPatch, "/me", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestUpdate_ImageTooLarge(t *testing.T) {
	e := newEnv(t)
	ana := e.fx.CreateProfile(context.Background(), "ana")

	big := "data:image/png;base64," + strings.Repeat("A", (models.ProfileImageMaxBytes/3+2)*4)
	body, err := json.Marshal(map[string]string{"profile_image": big})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if w := e.do(ana, http.MethodPatch, "/me", string(body)); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUpdate_UsernameTaken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.fx.CreateProfile(ctx, "bob")
	ana := e.fx.CreateProfile(ctx, "ana")

	if w := e.do(ana, http.MethodPatch, "/me", `{"username":"BOB"}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
	}
}

func TestActivitiesDashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.fx.CreateProfile(ctx, "ana")
	bob := e.fx.CreateProfile(ctx, "bob")

	hosted := e.fx.CreateActivityWithChat(ctx, ana.ID, "Hosted by ana")
	other := e.fx.CreateActivityWithChat(ctx, bob.ID, "Hosted by bob")
	e.fx.CreateRequest(ctx, other.ID, ana.ID, models.RequestPending)

	w := e.do(ana, http.MethodGet, "/me/activities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Activities struct {
			Hosted   []models.Activity `json:"hosted"`
			Waiting  []models.Activity `json:"waiting"`
			Accepted []models.Activity `json:"accepted"`
		} `json:"activities"`
		Stats struct {
			Hosted  int `json:"hosted"`
			Waiting int `json:"waiting"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Activities.Hosted) != 1 || resp.Activities.Hosted[0].ID != hosted.ID {
		t.Errorf("hosted = %+v", resp.Activities.Hosted)
	}
	if len(resp.Activities.Waiting) != 1 || resp.Activities.Waiting[0].ID != other.ID {
		t.Errorf("waiting = %+v", resp.Activities.Waiting)
	}
	if resp.Stats.Hosted != 1 || resp.Stats.Waiting != 1 {
		t.Errorf("stats = %+v", resp.Stats)
	}
}

func TestUnauthenticated(t *testing.T) {
	e := newEnv(t)

	r := testutil.NewRequest(http.MethodGet, "/me")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
