// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var (
	stopMu   sync.Mutex
	stoppers []func()
)

// onShutdown registers a cleanup for background loops started while
// building the handler.
func onShutdown(fn func()) {
	stopMu.Lock()
	defer stopMu.Unlock()
	stoppers = append(stoppers, fn)
}

func runStoppers() {
	stopMu.Lock()
	fns := stoppers
	stoppers = nil
	stopMu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Shutdown stops background loops and cleanly tears down DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	runStoppers()
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
