// internal/app/bootstrap/config.go
package bootstrap

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/skillmatch/internal/app/system/debounce"
	"github.com/dalemusser/skillmatch/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for SkillMatch.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: backend_base_url, session_name, etc.
//   - Environment variables: SKILLMATCH_BACKEND_BASE_URL, SKILLMATCH_SESSION_NAME, etc.
//   - Command-line flags: --backend_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "backend_base_url", Default: "http://localhost:8000", Desc: "Base URL of the SkillMatch backend API"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "skillmatch-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 90m)"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank derives one from session_key)"},

	{Name: "search_quiet_period", Default: "350ms", Desc: "Search input debounce window"},
	{Name: "dialog_ttl", Default: "30m", Desc: "Lifetime of an unattended dialog"},
	{Name: "image_probe_timeout", Default: "5s", Desc: "Timeout for checking profile image URLs"},

	// Backend call deadlines (see system/timeouts)
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health checks"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single reads and single-field writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for collection loads and multi-field submissions"},
	{Name: "timeout_long", Default: "20s", Desc: "Deadline for composite pages"},

	// Audit logging settings
	{Name: "mongo_uri", Default: "", Desc: "MongoDB URI for audit events (blank logs audit events only)"},
	{Name: "mongo_database", Default: "skillmatch", Desc: "MongoDB database name"},
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "Prune audit events older than this (0 keeps them)"},

	// Login throttling
	{Name: "login_rate_limit", Default: 10, Desc: "Sign-in attempts allowed per IP per window"},
	{Name: "login_rate_window", Default: "1m", Desc: "Sign-in rate limit window"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config files,
// SKILLMATCH_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SKILLMATCH", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		BackendBaseURL: appValues.String("backend_base_url"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", 24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		SearchQuietPeriod: appValues.Duration("search_quiet_period", debounce.DefaultQuiet),
		DialogTTL:         appValues.Duration("dialog_ttl", 30*time.Minute),
		ImageProbeTimeout: appValues.Duration("image_probe_timeout", 5*time.Second),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),

		MongoURI:       appValues.String("mongo_uri"),
		MongoDatabase:  appValues.String("mongo_database"),
		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditRetention: appValues.Duration("audit_retention", 90*24*time.Hour),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

var auditModes = map[string]bool{"all": true, "db": true, "log": true, "off": true}

// ValidateConfig performs app-specific config validation.
//
// The backend URL must be absolute; the Mongo URI is optional but must be
// well formed when given.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.BackendBaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		logger.Error("invalid backend base URL", zap.String("backend_base_url", appCfg.BackendBaseURL))
		return fmt.Errorf("backend_base_url must be an absolute URL, got %q", appCfg.BackendBaseURL)
	}

	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required when mongo_uri is set")
		}
	}

	if !auditModes[appCfg.AuditLogAuth] {
		return fmt.Errorf("audit_log_auth must be one of all, db, log, off; got %q", appCfg.AuditLogAuth)
	}
	if !auditModes[appCfg.AuditLogAdmin] {
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off; got %q", appCfg.AuditLogAdmin)
	}

	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.SearchQuietPeriod <= 0 {
		return fmt.Errorf("search_quiet_period must be positive")
	}
	if appCfg.TimeoutPing < 0 || appCfg.TimeoutShort < 0 || appCfg.TimeoutMedium < 0 || appCfg.TimeoutLong < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if appCfg.LoginRateLimit < 1 {
		return fmt.Errorf("login_rate_limit must be at least 1")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes")
	}

	return nil
}

// csrfKey returns the configured CSRF key, or one derived from the session
// key so a single secret is enough for development.
func csrfKey(appCfg AppConfig) []byte {
	if appCfg.CSRFKey != "" {
		return []byte(appCfg.CSRFKey)
	}
	sum := sha256.Sum256([]byte("csrf:" + appCfg.SessionKey))
	return sum[:]
}
