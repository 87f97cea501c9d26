// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for StudyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, oidc_issuer, etc.
//   - Environment variables: STUDYHUB_MONGO_URI, STUDYHUB_OIDC_ISSUER, etc.
//   - Command-line flags: --mongo_uri, --oidc_issuer, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "studyhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// OIDC bearer-token verification
	{Name: "oidc_issuer", Default: "", Desc: "OIDC issuer URL for bearer token verification"},
	{Name: "oidc_audience", Default: "", Desc: "Expected audience (client ID) of bearer tokens"},

	// Background group reaping
	{Name: "reaper_interval", Default: "5m", Desc: "Delay between group reap cycles (e.g., 5m, 1h)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, STUDYHUB_* for app), and
// command-line flags, merged with precedence: flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		OIDCIssuer:   appValues.String("oidc_issuer"),
		OIDCAudience: appValues.String("oidc_audience"),

		ReaperInterval: appValues.Duration("reaper_interval", 5*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// StudyHub validates the MongoDB URI format and the OIDC settings to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.OIDCIssuer == "" {
		return fmt.Errorf("oidc_issuer must be set (e.g., 'https://accounts.example.com')")
	}
	if appCfg.OIDCAudience == "" {
		return fmt.Errorf("oidc_audience must be set to the expected token audience")
	}
	if appCfg.ReaperInterval <= 0 {
		return fmt.Errorf("reaper_interval must be positive, got %s", appCfg.ReaperInterval)
	}

	return nil
}
