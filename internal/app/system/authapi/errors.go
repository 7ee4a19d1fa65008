package authapi

import (
	"errors"

	"github.com/dalemusser/acmelearning/internal/app/system/htmlsanitize"
)

// Status returns the backend HTTP status carried by err, or 0 when err is
// not a TransportError or no response was received.
func Status(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// Rejected reports whether the backend answered and refused the request
// (a 4xx status). Anything else means the backend could not be used.
func Rejected(err error) bool {
	s := Status(err)
	return s >= 400 && s < 500
}

// UserMessage returns the backend's error message reduced to plain text,
// or "" if it sent none.
func UserMessage(err error) string {
	var te *TransportError
	if !errors.As(err, &te) {
		return ""
	}
	return htmlsanitize.Message(te.Message)
}
