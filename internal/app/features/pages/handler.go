// internal/app/features/pages/handler.go
package pages

import (
	uierrors "github.com/dalemusser/acmelearning/internal/app/features/errors"
	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/navigator"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"go.uber.org/zap"
)

// Handler serves every page path as one navigation through the route table.
type Handler struct {
	Table      *routetable.Table
	Policy     navguard.AuthorizationPolicy
	Recorder   navguard.Recorder
	Metrics    *navigator.Metrics
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger

	// Render writes page templates; defaults to the WAFFLE engine.
	Render uierrors.RenderFunc
}

// Deps groups the collaborators of a Handler.
type Deps struct {
	Table      *routetable.Table
	Policy     navguard.AuthorizationPolicy // nil allows every navigation
	Recorder   navguard.Recorder            // optional
	Metrics    *navigator.Metrics           // optional
	SessionMgr *auth.SessionManager         // nil disables last-route tracking
	ErrLog     *uierrors.ErrorLogger
	Render     uierrors.RenderFunc // nil uses the WAFFLE engine
}

// NewHandler constructs a Handler.
func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	errLog := deps.ErrLog
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	render := deps.Render
	if render == nil {
		render = uierrors.TemplateRender
	}
	return &Handler{
		Table:      deps.Table,
		Policy:     deps.Policy,
		Recorder:   deps.Recorder,
		Metrics:    deps.Metrics,
		SessionMgr: deps.SessionMgr,
		ErrLog:     errLog,
		Log:        logger,
		Render:     render,
	}
}
