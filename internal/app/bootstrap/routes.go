// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	accountfeature "github.com/seeyou-app/seeyou/internal/app/features/account"
	activitiesfeature "github.com/seeyou-app/seeyou/internal/app/features/activities"
	authgooglefeature "github.com/seeyou-app/seeyou/internal/app/features/authgoogle"
	chatfeature "github.com/seeyou-app/seeyou/internal/app/features/chat"
	healthfeature "github.com/seeyou-app/seeyou/internal/app/features/health"
	profilesfeature "github.com/seeyou-app/seeyou/internal/app/features/profiles"
	"github.com/seeyou-app/seeyou/internal/app/lifecycle"
	"github.com/seeyou-app/seeyou/internal/app/system/auth"
	"github.com/seeyou-app/seeyou/internal/app/system/wstoken"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. The API is JSON-only; every route under
// /api requires a signed-in session except the websocket upgrade,
// which authenticates with a short-lived token instead (cookies do not
// ride cross-origin websocket handshakes).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	tokens, err := wstoken.New([]byte(appCfg.WSTokenKey))
	if err != nil {
		logger.Error("websocket token issuer init failed", zap.Error(err))
		return nil, err
	}

	svc := lifecycle.New(deps.Stores, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads the SessionUser into context if
	// signed in, making auth.CurrentUser(r) work everywhere.
	r.Use(auth.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session endpoints (no auth required to sign up or in).
	accountHandler := accountfeature.NewHandler(deps.Stores.Profiles, logger)
	r.Mount("/auth", accountHandler.Routes())

	googleHandler := authgooglefeature.NewHandler(
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL,
		[]byte(appCfg.SessionKey), deps.Stores.Profiles, logger)
	r.Mount("/auth/google", googleHandler.Routes())

	// The API proper. Handlers resolve the viewer themselves, so the
	// chat router (whose ws route is token-authenticated) mounts
	// without the session gate.
	activitiesHandler := activitiesfeature.NewHandler(svc, logger)
	r.Route("/api", func(api chi.Router) {
		api.With(auth.RequireSignedIn).Mount("/activities", activitiesHandler.Routes())

		chatHandler := chatfeature.NewHandler(svc, tokens, logger)
		api.Mount("/chats", chatHandler.Routes())

		profilesHandler := profilesfeature.NewHandler(svc, deps.Stores.Profiles, logger)
		api.With(auth.RequireSignedIn).Mount("/profile", profilesHandler.Routes())
	})

	return r, nil
}
