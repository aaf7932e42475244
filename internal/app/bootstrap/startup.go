// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"time"

	draftstore "github.com/dalemusser/casadefe/internal/app/store/drafts"
	rolestore "github.com/dalemusser/casadefe/internal/app/store/roles"
	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/timeouts"
	"github.com/dalemusser/casadefe/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const draftCleanupInterval = 15 * time.Minute

// draftCleanup runs for the life of the process; Shutdown stops it.
var draftCleanup *workers.DraftCleanup

// Startup runs once after the schema is in place and before the router is
// built. It applies timeout overrides, promotes the configured admin and
// starts the draft cleanup worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n), zap.Any("timeouts", timeouts.Current()))
	}

	if appCfg.AdminEmail != "" {
		actx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		if err := ensureAdminEmail(actx, deps.MongoDatabase, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}

	draftCleanup = workers.NewDraftCleanup(draftstore.New(deps.MongoDatabase, appCfg.DraftTTL), logger, draftCleanupInterval)
	draftCleanup.Start()
	return nil
}

// ensureAdminEmail grants the admin role to the account signed up with
// email. A missing account is only logged: the promotion is retried on
// the next start, after the person has signed up.
func ensureAdminEmail(ctx context.Context, db *mongo.Database, email string, logger *zap.Logger) error {
	u, err := userstore.New(db).GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		logger.Warn("admin_email has no account yet", zap.String("email", email))
		return nil
	}
	if err != nil {
		logger.Error("admin lookup failed", zap.String("email", email), zap.Error(err))
		return err
	}

	changed, err := rolestore.New(db).EnsureAdmin(ctx, u.ID)
	if err != nil {
		logger.Error("admin promotion failed", zap.String("email", email), zap.Error(err))
		return err
	}
	if changed {
		logger.Info("promoted admin_email to admin", zap.String("email", email), zap.String("user_id", u.ID.Hex()))
	}
	return nil
}
