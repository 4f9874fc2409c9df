// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/store/audit"
	"github.com/dalemusser/skillmatch/internal/app/system/api"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 10 * time.Second

// ConnectDB builds the backend client and, when configured, connects the
// audit database.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	backend, err := api.New(appCfg.BackendBaseURL, nil, logger)
	if err != nil {
		return DBDeps{}, err
	}
	deps := DBDeps{Backend: backend}

	if appCfg.MongoURI == "" {
		logger.Info("no mongo_uri configured; audit events go to the log only")
		return deps, nil
	}

	cctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	return deps, nil
}

// EnsureSchema creates the audit indexes when a database is configured.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := audit.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		logger.Error("audit index setup failed", zap.Error(err))
		return err
	}
	return nil
}
