// Package shared holds helpers used by the sign-in, sign-up and sign-out
// features.
package shared

import (
	"errors"
	"net/http"

	"github.com/dalemusser/acmelearning/internal/app/system/authapi"
	"github.com/dalemusser/acmelearning/internal/app/system/i18n"
	"github.com/dalemusser/acmelearning/internal/app/system/inputval"
)

// InputMessage localizes an inputval error.
func InputMessage(r *http.Request, err error) string {
	if errors.Is(err, inputval.ErrMissing) {
		return i18n.T(r.Context(), "MissingCredentials", nil)
	}
	return i18n.T(r.Context(), "InvalidCredentials", nil)
}

// Failure maps an authentication API error to the status of the re-rendered
// form and a message the user can act on. rejectedID names the message used
// when the backend refused without saying why.
func Failure(r *http.Request, err error, rejectedID string) (int, string) {
	if authapi.Rejected(err) {
		if msg := authapi.UserMessage(err); msg != "" {
			return http.StatusOK, msg
		}
		return http.StatusOK, i18n.T(r.Context(), rejectedID, nil)
	}
	return http.StatusServiceUnavailable, i18n.T(r.Context(), "BackendUnavailable", nil)
}

// AuditReason is the failure reason stored with an audit event.
func AuditReason(err error) string {
	if msg := authapi.UserMessage(err); msg != "" {
		return msg
	}
	if authapi.Rejected(err) {
		return "rejected"
	}
	return "backend unavailable"
}

// Redirect sends a 303 to dest, or HX-Redirect for HTMX requests.
func Redirect(w http.ResponseWriter, r *http.Request, dest string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
