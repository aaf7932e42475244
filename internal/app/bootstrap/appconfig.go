// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds Casa de Fé settings that sit beside WAFFLE's CoreConfig.
// CoreConfig covers ports, TLS, logging and CORS; everything about the
// portal itself lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string
	MongoDatabase string

	// Session cookie
	SessionKey    string        // signing key, 32+ chars in production
	SessionName   string        // cookie name (default: casadefe-session)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // how long a sign-in lasts

	// Registration wizard
	RegistrationCutoff time.Time     // zero means registration never closes
	DraftTTL           time.Duration // lifetime of an unsubmitted draft
	Location           *time.Location

	// Admin console
	NetworkCampus string // the one campus whose casas are split by network
	AdminEmail    string // promoted to admin on every startup
	AdminSetupKey string // blank disables self-service admin setup

	// Sign-in attempts allowed per client IP per minute.
	LoginRateLimit int
}
