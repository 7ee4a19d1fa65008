package navigation_test

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/acmelearning/internal/app/system/navigation"
)

func TestReturnURL(t *testing.T) {
	tests := []struct {
		name  string
		query string
		form  string
		want  string
	}{
		{"missing", "", "", "/home"},
		{"query", "/profile", "", "/profile"},
		{"form", "", "/about", "/about"},
		{"excluded form page", "/sign-in", "", "/home"},
		{"excluded subpath", "/sign-up/step", "", "/home"},
		{"absolute url", "https://evil.example/steal", "", "/home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/sign-in"
			if tt.query != "" {
				target += "?return=" + url.QueryEscape(tt.query)
			}
			form := url.Values{}
			if tt.form != "" {
				form.Set("return", tt.form)
			}
			req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			if got := navigation.ReturnURL(req, navigation.AuthReturn); got != tt.want {
				t.Errorf("ReturnURL = %q, want %q", got, tt.want)
			}
		})
	}
}
