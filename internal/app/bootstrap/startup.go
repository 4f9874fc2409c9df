// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/skillmatch/internal/app/resources"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/skillmatch/internal/app/system/viewdata"
	"github.com/dalemusser/skillmatch/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	viewdata.Init(models.DefaultSiteName, appCfg.SearchQuietPeriod)
	configureTimeouts(appCfg)
	resources.LoadSharedTemplates()
	logger.Info("skillmatch starting",
		zap.String("backend", appCfg.BackendBaseURL),
		zap.Duration("search_quiet_period", appCfg.SearchQuietPeriod),
		zap.Any("timeouts", timeouts.Current()),
		zap.Bool("audit_db", deps.MongoDatabase != nil))
	return nil
}

func configureTimeouts(appCfg AppConfig) {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
}
