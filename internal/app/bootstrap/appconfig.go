// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// Authentication API
	BackendBaseURL string        // e.g. https://api.acme.example
	BackendTimeout time.Duration // per-call HTTP client timeout

	// Session management configuration
	SessionKey    string        // Secret for deriving cookie keys (must be strong in production)
	SessionName   string        // Cookie name (default: acme-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// MongoDB (optional; blank URI disables audit persistence)
	MongoURI      string
	MongoDatabase string

	// Audit logging modes: all, db, log, off
	AuditLogNavigation string
	AuditLogAuth       string

	// Audit retention; zero keeps events forever
	AuditRetention         time.Duration
	AuditRetentionInterval time.Duration

	// Routing and localization
	MaxRedirects    int    // redirect chain bound for the route table
	DefaultLanguage string // fallback UI language (e.g. "en")

	// Sign-in and sign-up throttling, per client IP and per username
	SignInRateLimit  int
	SignInRateWindow time.Duration

	// Client IP comes from proxy headers only when this is set
	TrustProxyHeaders bool
}
