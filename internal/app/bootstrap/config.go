// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/casadefe/internal/app/features/registration"
	"github.com/dalemusser/casadefe/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for Casa de Fé.
// Each key can come from a config file (mongo_uri), the environment
// (CASADEFE_MONGO_URI) or a flag (--mongo_uri).
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "casadefe", Desc: "MongoDB database name"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "casadefe-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "How long a sign-in lasts (e.g., 24h, 720h)"},

	// Registration
	{Name: "registration_cutoff", Default: "", Desc: "Last day registration is open (YYYY-MM-DD or RFC 3339); blank never closes"},
	{Name: "draft_ttl", Default: "24h", Desc: "Lifetime of an unsubmitted registration draft"},
	{Name: "timezone", Default: "America/Sao_Paulo", Desc: "Time zone used for the registration cutoff"},

	// Admin
	{Name: "network_campus", Default: "Central", Desc: "Campus whose casas are filtered by network"},
	{Name: "admin_email", Default: "", Desc: "Email of a user promoted to admin on startup"},
	{Name: "admin_setup_key", Default: "", Desc: "Key that lets a signed-in user claim the admin role (blank disables)"},

	{Name: "login_rate_limit", Default: 10, Desc: "Sign-in attempts allowed per IP per minute"},
}

// LoadConfig loads WAFFLE core config and the portal settings.
// Precedence is flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CASADEFE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	loc, err := time.LoadLocation(appValues.String("timezone"))
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("invalid timezone: %w", err)
	}
	cutoff, err := registration.ParseCutoff(appValues.String("registration_cutoff"), loc)
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("invalid registration_cutoff: %w", err)
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		RegistrationCutoff: cutoff,
		DraftTTL:           appValues.Duration("draft_ttl", 24*time.Hour),
		Location:           loc,

		NetworkCampus: normalize.Label(appValues.String("network_campus")),
		AdminEmail:    normalize.Email(appValues.String("admin_email")),
		AdminSetupKey: appValues.String("admin_setup_key"),

		LoginRateLimit: appValues.Int("login_rate_limit"),
	}

	if !appCfg.RegistrationCutoff.IsZero() {
		logger.Info("registration cutoff configured", zap.Time("cutoff", appCfg.RegistrationCutoff))
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects settings the portal cannot run with. It runs
// before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if coreCfg.Env == "prod" && (appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32) {
		return fmt.Errorf("session_key must be set to 32+ random characters in production")
	}
	if appCfg.DraftTTL <= 0 {
		return fmt.Errorf("draft_ttl must be positive")
	}
	if appCfg.LoginRateLimit <= 0 {
		return fmt.Errorf("login_rate_limit must be positive")
	}
	if appCfg.AdminSetupKey != "" && len(appCfg.AdminSetupKey) < 16 {
		logger.Warn("admin_setup_key is short; 16+ chars recommended")
	}
	return nil
}
