// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	adminfeature "github.com/dalemusser/casadefe/internal/app/features/admin"
	adminsetupfeature "github.com/dalemusser/casadefe/internal/app/features/adminsetup"
	attendancefeature "github.com/dalemusser/casadefe/internal/app/features/attendance"
	casasfeature "github.com/dalemusser/casadefe/internal/app/features/casas"
	contentfeature "github.com/dalemusser/casadefe/internal/app/features/content"
	dashboardfeature "github.com/dalemusser/casadefe/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/casadefe/internal/app/features/errors"
	healthfeature "github.com/dalemusser/casadefe/internal/app/features/health"
	loginfeature "github.com/dalemusser/casadefe/internal/app/features/login"
	logoutfeature "github.com/dalemusser/casadefe/internal/app/features/logout"
	membersfeature "github.com/dalemusser/casadefe/internal/app/features/members"
	profilefeature "github.com/dalemusser/casadefe/internal/app/features/profile"
	registrationfeature "github.com/dalemusser/casadefe/internal/app/features/registration"
	reportsfeature "github.com/dalemusser/casadefe/internal/app/features/reports"
	userstore "github.com/dalemusser/casadefe/internal/app/store/users"
	"github.com/dalemusser/casadefe/internal/app/system/auth"
	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root router. WAFFLE calls it once config,
// the Mongo connection, indexes and Startup are all done.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase

	// Reload the user on every request so role changes apply immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	m := metrics.New()
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Use(sessionMgr.LoadSessionUser)
	r.NotFound(errorsfeature.HandleNotFound)
	r.MethodNotAllowed(errorsfeature.HandleMethodNotAllowed)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, m, appCfg.LoginRateLimit, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	setupHandler := adminsetupfeature.NewHandler(db, sessionMgr, appCfg.AdminSetupKey, errLog, logger)
	r.Mount("/admin-setup", adminsetupfeature.Routes(setupHandler))

	// Leader area
	registrationHandler := registrationfeature.NewHandler(db, sessionMgr, m, appCfg.RegistrationCutoff, appCfg.DraftTTL, errLog, logger)
	r.Mount("/registration", registrationfeature.Routes(registrationHandler, sessionMgr))

	casasHandler := casasfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/casas", casasfeature.Routes(casasHandler, sessionMgr))

	membersHandler := membersfeature.NewHandler(db, errLog, logger)
	r.Mount("/members", membersfeature.Routes(membersHandler, sessionMgr))

	attendanceHandler := attendancefeature.NewHandler(db, m, appCfg.Location, errLog, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler, sessionMgr))

	reportsHandler := reportsfeature.NewHandler(db, m, errLog, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(db, appCfg.Location, errLog, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	contentHandler := contentfeature.NewHandler(db, errLog, logger)
	r.Mount("/content", contentfeature.Routes(contentHandler, sessionMgr))

	// Admin console
	adminHandler := adminfeature.NewHandler(db, m, appCfg.NetworkCampus, appCfg.Location, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	logger.Info("routes mounted",
		zap.String("network_campus", appCfg.NetworkCampus),
		zap.Bool("admin_setup_enabled", appCfg.AdminSetupKey != ""))

	return r, nil
}
