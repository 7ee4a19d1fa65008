package routetable

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by ConfigurationError.
var (
	ErrRedirectLoop   = errors.New("redirect loop")
	ErrDuplicateName  = errors.New("duplicate route name")
	ErrDuplicatePath  = errors.New("duplicate route path")
	ErrNoCatchAll     = errors.New("missing root catch-all route")
	ErrInvalidPattern = errors.New("invalid path pattern")
	ErrInvalidEntry   = errors.New("invalid route entry")
)

// ConfigurationError reports a malformed or cyclic route table.
// It is returned by New, and by Resolve if a redirect chain cannot settle.
type ConfigurationError struct {
	Route  string // offending route name (or path when the name is missing)
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Route == "" {
		return fmt.Sprintf("routetable: %s", e.Reason)
	}
	return fmt.Sprintf("routetable: route %q: %s", e.Route, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(route string, cause error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Route:  route,
		Reason: fmt.Sprintf(format, args...),
		Err:    cause,
	}
}
