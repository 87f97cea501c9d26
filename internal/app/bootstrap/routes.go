// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	chatcore "github.com/dalemusser/studyhub/internal/app/chat"
	chatfeature "github.com/dalemusser/studyhub/internal/app/features/chat"
	groupsfeature "github.com/dalemusser/studyhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/studyhub/internal/app/features/health"
	profilefeature "github.com/dalemusser/studyhub/internal/app/features/profile"
	chatlogstore "github.com/dalemusser/studyhub/internal/app/store/chatlog"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. StudyHub builds the OIDC verifier, the
// bearer-token authenticator, and the chat relay, then mounts the feature
// routers:
//   - /health       liveness/readiness probe
//   - /api/groups   group creation, listing, join/leave
//   - /api/profile  the signed-in user's profile
//   - /ws/chat      the websocket chat relay
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.StudyHubMongoDatabase

	verifyCtx, cancel := context.WithTimeout(context.Background(), timeouts.Long)
	defer cancel()
	verifier, err := auth.NewOIDCVerifier(verifyCtx, appCfg.OIDCIssuer, appCfg.OIDCAudience)
	if err != nil {
		logger.Error("OIDC verifier init failed", zap.Error(err))
		return nil, err
	}

	users := userstore.New(db)
	authenticator := auth.NewAuthenticator(verifier, users, logger)

	registry := chatcore.NewRegistry(logger)
	controller := chatcore.NewController(registry, verifier, users, chatlogstore.New(db), logger)

	r := chi.NewRouter()

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.StudyHubMongoClient, logger)))
	r.Mount("/api/groups", groupsfeature.Routes(groupsfeature.NewHandler(db, logger), authenticator))
	r.Mount("/api/profile", profilefeature.Routes(profilefeature.NewHandler(db, logger), authenticator))
	r.Mount("/ws", chatfeature.Routes(chatfeature.NewHandler(controller)))

	return r, nil
}
