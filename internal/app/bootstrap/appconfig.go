// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and request limits; everything specific to SkillMatch
// lives here.
type AppConfig struct {
	// Backend the presentation layer talks to.
	BackendBaseURL string // e.g. http://localhost:8000

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: skillmatch-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // Session cookie lifetime
	CSRFKey       string        // 32-byte key for CSRF tokens; derived from SessionKey when blank

	// UI timing
	SearchQuietPeriod time.Duration // Debounce window for search inputs
	DialogTTL         time.Duration // How long an abandoned dialog stays open server-side
	ImageProbeTimeout time.Duration // Bound on profile image URL checks

	// Backend call deadlines; zero keeps the package default
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Audit storage. A blank MongoURI keeps audit events in the log only.
	MongoURI       string
	MongoDatabase  string
	AuditLogAuth   string        // "all", "db", "log" or "off"
	AuditLogAdmin  string        // "all", "db", "log" or "off"
	AuditRetention time.Duration // Age after which audit events are pruned; 0 keeps them

	// Sign-in throttling
	LoginRateLimit  int           // Attempts per IP per window
	LoginRateWindow time.Duration // Window for LoginRateLimit
}
