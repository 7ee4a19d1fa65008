// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/acmelearning/internal/app/features/errors"
	healthfeature "github.com/dalemusser/acmelearning/internal/app/features/health"
	pagesfeature "github.com/dalemusser/acmelearning/internal/app/features/pages"
	signinfeature "github.com/dalemusser/acmelearning/internal/app/features/signin"
	signoutfeature "github.com/dalemusser/acmelearning/internal/app/features/signout"
	signupfeature "github.com/dalemusser/acmelearning/internal/app/features/signup"
	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/store/audit"
	"github.com/dalemusser/acmelearning/internal/app/system/auditlog"
	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"github.com/dalemusser/acmelearning/internal/app/system/authapi"
	"github.com/dalemusser/acmelearning/internal/app/system/i18n"
	"github.com/dalemusser/acmelearning/internal/app/system/navigator"
	"github.com/dalemusser/acmelearning/internal/app/system/ratelimit"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// routerDeps is everything newRouter mounts. BuildHandler fills it from
// config; tests fill it directly.
type routerDeps struct {
	Secure     bool
	TrustProxy bool // rewrite RemoteAddr from proxy headers
	CSRFKey    []byte
	Mongo      *mongo.Client // nil when persistence is disabled
	Table      *routetable.Table
	SessionMgr *auth.SessionManager
	Translator *i18n.Translator
	Auth       *authapi.Service
	Limiter    *ratelimit.AuthLimiter
	AuditLog   *auditlog.Logger
	Metrics    *navigator.Metrics
	Registry   *prometheus.Registry
	ErrLog     *errorsfeature.ErrorLogger
	Render     errorsfeature.RenderFunc // page renderer; nil uses the WAFFLE engine
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the route table, session and
// language middleware, the authentication API client and the audit logger,
// then mounts the auth forms and the page navigator.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	csrfKey, err := auth.CSRFKey(appCfg.SessionKey)
	if err != nil {
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	translator, err := i18n.New(appCfg.DefaultLanguage, logger)
	if err != nil {
		logger.Error("i18n init failed", zap.Error(err))
		return nil, err
	}

	table, err := site.NewTable(routetable.WithMaxRedirects(appCfg.MaxRedirects))
	if err != nil {
		logger.Error("route table invalid", zap.Error(err))
		return nil, err
	}

	var store *audit.Store
	if deps.MongoDatabase != nil {
		store = audit.New(deps.MongoDatabase)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	transport := authapi.NewHTTPTransport(appCfg.BackendBaseURL, appCfg.BackendTimeout, logger)

	return newRouter(routerDeps{
		Secure:     secure,
		TrustProxy: appCfg.TrustProxyHeaders,
		CSRFKey:    csrfKey,
		Mongo:      deps.MongoClient,
		Table:      table,
		SessionMgr: sessionMgr,
		Translator: translator,
		Auth:       authapi.NewService(transport),
		Limiter:    ratelimit.NewAuthLimiter(appCfg.SignInRateLimit, appCfg.SignInRateWindow),
		AuditLog:   auditlog.New(store, logger, appCfg.auditConfig()),
		Metrics:    navigator.NewMetrics("acme", reg),
		Registry:   reg,
		ErrLog:     errorsfeature.NewErrorLogger(logger),
	}, logger), nil
}

func newRouter(d routerDeps, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if d.TrustProxy {
		// Rate limiting and audit records key on RemoteAddr.
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)

	// Health and metrics sit outside sessions and CSRF.
	healthHandler := healthfeature.NewHandler(d.Mongo, d.Table.Len(), logger)
	healthfeature.Register(r, healthHandler)
	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		// Plain HTTP in dev skips the TLS-only Referer check.
		if !d.Secure {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, csrf.PlaintextHTTPRequest(req))
				})
			})
		}
		r.Use(csrf.Protect(d.CSRFKey,
			csrf.Secure(d.Secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				d.ErrLog.LogForbidden(w, req, "csrf check failed", csrf.FailureReason(req), "", "")
			})),
		))

		// Global auth middleware: loads SessionUser into context if signed in.
		r.Use(d.SessionMgr.LoadSessionUser)
		if d.Translator != nil {
			r.Use(d.Translator.Middleware)
		}

		pagesHandler := pagesfeature.NewHandler(pagesfeature.Deps{
			Table:      d.Table,
			Policy:     auth.DefaultPolicy,
			Recorder:   d.AuditLog,
			Metrics:    d.Metrics,
			SessionMgr: d.SessionMgr,
			ErrLog:     d.ErrLog,
			Render:     d.Render,
		}, logger)

		// Authentication. Each feature claims only its exact path; anything
		// deeper is a page navigation.
		signinHandler := signinfeature.NewHandler(d.Auth, d.SessionMgr, d.Limiter, d.ErrLog, d.AuditLog, logger)
		signinfeature.Register(r, signinHandler, pagesHandler.Serve)

		signupHandler := signupfeature.NewHandler(d.Auth, d.Limiter, d.ErrLog, d.AuditLog, logger)
		signupfeature.Register(r, signupHandler, pagesHandler.Serve)

		signoutHandler := signoutfeature.NewHandler(d.SessionMgr, d.AuditLog, logger)
		signoutfeature.Register(r, signoutHandler, d.SessionMgr, pagesHandler.Serve)

		// Error pages
		errorsHandler := errorsfeature.NewHandler(d.ErrLog)
		r.Get("/forbidden", errorsHandler.Forbidden)

		// Every other path is a navigation through the route table.
		r.Mount("/", pagesfeature.Routes(pagesHandler))
	})

	return r
}
