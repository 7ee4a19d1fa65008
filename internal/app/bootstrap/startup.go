// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/acmelearning/internal/app/resources"
	"github.com/dalemusser/acmelearning/internal/app/store/audit"
	"github.com/dalemusser/acmelearning/internal/app/system/timeouts"
	"github.com/dalemusser/acmelearning/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// retention runs between Startup and Shutdown when audit_retention is set.
var retention *workers.AuditRetention

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Backend: appCfg.BackendTimeout})
	resources.LoadSharedTemplates()

	if deps.MongoDatabase != nil && appCfg.AuditRetention > 0 {
		retention = workers.NewAuditRetention(audit.New(deps.MongoDatabase), logger,
			appCfg.AuditRetentionInterval, appCfg.AuditRetention)
		retention.Start()
	}

	logger.Info("startup complete",
		zap.String("backend", appCfg.BackendBaseURL),
		zap.Bool("audit_persistence", deps.MongoDatabase != nil))
	return nil
}
