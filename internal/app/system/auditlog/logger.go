// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dalemusser/acmelearning/internal/app/store/audit"
	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off" // disabled
)

// ValidMode reports whether m is a known destination mode.
func ValidMode(m string) bool {
	switch m {
	case ModeAll, ModeDB, ModeLog, ModeOff:
		return true
	}
	return false
}

// Config holds audit logging configuration.
type Config struct {
	// Navigation controls logging of route transitions.
	Navigation string
	// Auth controls logging of sign-in, sign-up and sign-out.
	Auth string
}

// Validate rejects unknown modes.
func (c Config) Validate() error {
	if !ValidMode(c.Navigation) {
		return fmt.Errorf("audit_log_navigation: unknown mode %q (want all|db|log|off)", c.Navigation)
	}
	if !ValidMode(c.Auth) {
		return fmt.Errorf("audit_log_auth: unknown mode %q (want all|db|log|off)", c.Auth)
	}
	return nil
}

// Logger writes audit events to MongoDB (via audit.Store) and structured
// logs (via zap). A nil store turns "db" into a no-op and "all" into "log".
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

var _ navguard.Recorder = (*Logger)(nil)

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.Username != "" {
		fields = append(fields, zap.String("username", event.Username))
	}
	if event.NavigationID != "" {
		fields = append(fields,
			zap.String("navigation_id", event.NavigationID),
			zap.String("from", event.FromRoute),
			zap.String("to", event.ToRoute),
			zap.String("path", event.Path))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryNavigation:
		setting = l.config.Navigation
	case audit.CategoryAuth:
		setting = l.config.Auth
	default:
		setting = ModeAll
	}

	if setting == ModeOff || setting == "" {
		return
	}

	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}

	if (setting == ModeAll || setting == ModeDB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Navigation Events ---

// RecordTransition implements navguard.Recorder.
func (l *Logger) RecordTransition(ctx context.Context, t navguard.Transition) {
	e := audit.Event{
		Timestamp:    t.At,
		Category:     audit.CategoryNavigation,
		EventType:    audit.EventNavigation,
		NavigationID: t.NavigationID,
		FromRoute:    t.From,
		ToRoute:      t.To,
		Path:         t.Path,
		Success:      true,
	}
	if u, ok := auth.UserFromContext(ctx); ok {
		e.UserID = u.ID
		e.Username = u.Username
	}
	l.Log(ctx, e)
}

// --- Authentication Events ---

func authEvent(r *http.Request, eventType, username string, success bool) audit.Event {
	return audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		Username:  username,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

// SignInSuccess logs a successful sign-in.
func (l *Logger) SignInSuccess(ctx context.Context, r *http.Request, userID, username string) {
	e := authEvent(r, audit.EventSignInSuccess, username, true)
	e.UserID = userID
	l.Log(ctx, e)
}

// SignInFailed logs a rejected sign-in. status is the backend's HTTP status,
// 0 when the backend was unreachable.
func (l *Logger) SignInFailed(ctx context.Context, r *http.Request, username string, status int, reason string) {
	e := authEvent(r, audit.EventSignInFailed, username, false)
	e.FailureReason = reason
	e.Details = map[string]string{"backend_status": strconv.Itoa(status)}
	l.Log(ctx, e)
}

// SignInRateLimited logs a sign-in refused by the rate limiter.
func (l *Logger) SignInRateLimited(ctx context.Context, r *http.Request, username string) {
	e := authEvent(r, audit.EventSignInRateLimited, username, false)
	e.FailureReason = "rate limit exceeded"
	l.Log(ctx, e)
}

// SignUpSuccess logs a created account.
func (l *Logger) SignUpSuccess(ctx context.Context, r *http.Request, userID, username string) {
	e := authEvent(r, audit.EventSignUpSuccess, username, true)
	e.UserID = userID
	l.Log(ctx, e)
}

// SignUpRateLimited logs a sign-up refused by the rate limiter.
func (l *Logger) SignUpRateLimited(ctx context.Context, r *http.Request, username string) {
	e := authEvent(r, audit.EventSignUpRateLimited, username, false)
	e.FailureReason = "rate limit exceeded"
	l.Log(ctx, e)
}

// SignUpFailed logs a rejected sign-up.
func (l *Logger) SignUpFailed(ctx context.Context, r *http.Request, username string, status int, reason string) {
	e := authEvent(r, audit.EventSignUpFailed, username, false)
	e.FailureReason = reason
	e.Details = map[string]string{"backend_status": strconv.Itoa(status)}
	l.Log(ctx, e)
}

// SignOut logs a sign-out.
func (l *Logger) SignOut(ctx context.Context, r *http.Request, userID, username string) {
	e := authEvent(r, audit.EventSignOut, username, true)
	e.UserID = userID
	l.Log(ctx, e)
}
