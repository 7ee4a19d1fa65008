// Package inputval checks form input before it leaves the app.
package inputval

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dalemusser/acmelearning/internal/app/system/limits"
	"golang.org/x/text/unicode/norm"
)

// Errors returned by Credentials. Handlers map them to localized messages.
var (
	ErrMissing     = errors.New("username and password are required")
	ErrTooLong     = errors.New("username or password is too long")
	ErrBadUsername = errors.New("username contains unsupported characters")
)

// Username trims and NFC-normalizes a username so that visually identical
// input reaches the backend as the same bytes.
func Username(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Credentials validates a username/password pair. username must already be
// normalized with Username. Passwords are never trimmed.
func Credentials(username, password string) error {
	if username == "" || password == "" {
		return ErrMissing
	}
	if utf8.RuneCountInString(username) > limits.MaxUsernameLen ||
		utf8.RuneCountInString(password) > limits.MaxPasswordLen {
		return ErrTooLong
	}
	for _, r := range username {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return ErrBadUsername
		}
	}
	return nil
}
