// Package timeouts provides centralized timeout values for handler operations.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Backend: one call to the authentication API
//   - Schema: index creation at startup
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing    = 2 * time.Second
	DefaultBackend = 10 * time.Second
	DefaultSchema  = 30 * time.Second
)

var (
	mu      sync.RWMutex
	ping    = DefaultPing
	backend = DefaultBackend
	schema  = DefaultSchema
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Backend returns the timeout for a sign-in or sign-up call.
func Backend() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Schema returns the timeout for startup index creation.
func Schema() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return schema
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping    time.Duration
	Backend time.Duration
	Schema  time.Duration
}

// Configure sets custom timeout values. Call it during startup before
// handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Backend > 0 {
		backend = cfg.Backend
	}
	if cfg.Schema > 0 {
		schema = cfg.Schema
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	backend = DefaultBackend
	schema = DefaultSchema
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Backend: backend, Schema: schema}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context ran out of time.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Backend(), h.Log, "sign-in")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
