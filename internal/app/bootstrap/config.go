// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/acmelearning/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for the learning center.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: backend_base_url, session_name, etc.
//   - Environment variables: ACME_BACKEND_BASE_URL, ACME_SESSION_NAME, etc.
//   - Command-line flags: --backend_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "backend_base_url", Default: "http://localhost:8081", Desc: "Base URL of the authentication API"},
	{Name: "backend_timeout", Default: "10s", Desc: "HTTP timeout for authentication API calls"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "acme-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (blank disables audit persistence)"},
	{Name: "mongo_database", Default: "acme_learning", Desc: "MongoDB database name"},

	// Audit logging settings
	{Name: "audit_log_navigation", Default: "log", Desc: "Navigation event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "audit_retention", Default: "0s", Desc: "Delete stored audit events older than this (0 keeps them)"},
	{Name: "audit_retention_interval", Default: "1h", Desc: "How often the audit retention worker runs"},

	{Name: "max_redirects", Default: 8, Desc: "Maximum route table redirect hops"},
	{Name: "default_language", Default: "en", Desc: "Fallback UI language"},

	{Name: "signin_rate_limit", Default: 10, Desc: "Sign-in/sign-up attempts allowed per window, per IP and per username"},
	{Name: "signin_rate_window", Default: "1m", Desc: "Sign-in/sign-up rate limit window"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Take the client IP from X-Forwarded-For/X-Real-IP (enable only behind a trusted proxy)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ACME_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ACME", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		BackendBaseURL: strings.TrimRight(appValues.String("backend_base_url"), "/"),
		BackendTimeout: appValues.Duration("backend_timeout", 10*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		MongoURI:      strings.TrimSpace(appValues.String("mongo_uri")),
		MongoDatabase: appValues.String("mongo_database"),

		AuditLogNavigation: appValues.String("audit_log_navigation"),
		AuditLogAuth:       appValues.String("audit_log_auth"),

		AuditRetention:         appValues.Duration("audit_retention", 0),
		AuditRetentionInterval: appValues.Duration("audit_retention_interval", time.Hour),

		MaxRedirects:    appValues.Int("max_redirects"),
		DefaultLanguage: appValues.String("default_language"),

		SignInRateLimit:  appValues.Int("signin_rate_limit"),
		SignInRateWindow: appValues.Duration("signin_rate_window", time.Minute),

		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),
	}

	if appCfg.MongoURI == "" {
		logger.Info("mongo_uri not set; audit events go to the log only")
	}
	return coreCfg, appCfg, nil
}

// auditConfig maps the audit keys onto auditlog.Config.
func (c AppConfig) auditConfig() auditlog.Config {
	return auditlog.Config{
		Navigation: c.AuditLogNavigation,
		Auth:       c.AuditLogAuth,
	}
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Problems are caught here, before any connection is attempted.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required when mongo_uri is set")
		}
	}

	if appCfg.BackendBaseURL == "" {
		return fmt.Errorf("backend_base_url is required")
	}
	if !urlutil.IsValidAbsHTTPURL(appCfg.BackendBaseURL) {
		return fmt.Errorf("backend_base_url must be an absolute http(s) URL, got %q", appCfg.BackendBaseURL)
	}

	if err := appCfg.auditConfig().Validate(); err != nil {
		return err
	}

	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.AuditRetention > 0 && appCfg.AuditRetentionInterval <= 0 {
		return fmt.Errorf("audit_retention_interval must be positive when audit_retention is set")
	}

	if appCfg.MaxRedirects < 1 {
		return fmt.Errorf("max_redirects must be at least 1, got %d", appCfg.MaxRedirects)
	}
	if appCfg.SignInRateLimit < 1 {
		return fmt.Errorf("signin_rate_limit must be at least 1, got %d", appCfg.SignInRateLimit)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SessionKey == devSessionKey {
		return fmt.Errorf("session_key must be changed from the development default in prod")
	}
	return nil
}
