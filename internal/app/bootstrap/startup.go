// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/studyhub/internal/app/store/chatlog"
	"github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// reaper is started here and stopped in Shutdown.
var reaper *workers.GroupReaper

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. StudyHub
// launches the group reaper here so expired and empty groups are cleaned up
// from the moment the service is live.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.StudyHubMongoDatabase
	reaper = workers.NewGroupReaper(
		groupstore.New(db),
		userstore.New(db),
		chatlogstore.New(db),
		logger,
		appCfg.ReaperInterval,
	)
	reaper.Start()
	return nil
}
