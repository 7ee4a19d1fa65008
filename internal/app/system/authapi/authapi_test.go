package authapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/acmelearning/internal/app/system/authapi"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newBackend(t *testing.T, h http.HandlerFunc) *authapi.Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return authapi.NewService(authapi.NewHTTPTransport(srv.URL, time.Second, zap.NewNop()))
}

func TestSignIn_Success(t *testing.T) {
	var got authapi.SignInRequest
	svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/authentication/sign-in" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"username":"ada","token":"jwt-123"}`))
	})

	resp, err := svc.SignIn(context.Background(), authapi.SignInRequest{Username: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if diff := cmp.Diff(authapi.SignInRequest{Username: "ada", Password: "pw"}, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(authapi.SignInResponse{ID: 7, Username: "ada", Token: "jwt-123"}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestSignUp_Success(t *testing.T) {
	svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/authentication/sign-up" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":8,"username":"grace"}`))
	})

	resp, err := svc.SignUp(context.Background(), authapi.SignUpRequest{Username: "grace", Password: "pw"})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if resp.ID != 8 || resp.Username != "grace" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestPost_Non2xxIsTransportError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"json message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"json error", http.StatusConflict, `{"error":"Username already taken"}`, "Username already taken"},
		{"plain text", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"unknown json", http.StatusInternalServerError, `{"code":13}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := svc.SignIn(context.Background(), authapi.SignInRequest{Username: "ada"})

			var te *authapi.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected *TransportError, got %T (%v)", err, err)
			}
			if te.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, te.StatusCode)
			}
			if te.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, te.Message)
			}
			if te.Path != authapi.SignInPath || te.Method != http.MethodPost {
				t.Errorf("unexpected call info %s %s", te.Method, te.Path)
			}
		})
	}
}

func TestPost_UnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := authapi.NewService(authapi.NewHTTPTransport(url, time.Second, nil))
	_, err := svc.SignIn(context.Background(), authapi.SignInRequest{})

	var te *authapi.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T (%v)", err, err)
	}
	if te.StatusCode != 0 || te.Err == nil {
		t.Errorf("expected network failure without status, got %+v", te)
	}
}

// recordingTransport is an injected transport that records every call.
type recordingTransport struct {
	paths []string
	err   error
}

func (r *recordingTransport) Post(_ context.Context, path string, _, out any) error {
	r.paths = append(r.paths, path)
	if r.err != nil {
		return r.err
	}
	if resp, ok := out.(*authapi.SignUpResponse); ok {
		resp.Username = "grace"
	}
	return nil
}

func TestService_BothCallsUseInjectedTransport(t *testing.T) {
	rt := &recordingTransport{}
	svc := authapi.NewService(rt)

	if _, err := svc.SignIn(context.Background(), authapi.SignInRequest{}); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.SignUp(context.Background(), authapi.SignUpRequest{})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{authapi.SignInPath, authapi.SignUpPath}, rt.paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if resp.Username != "grace" {
		t.Errorf("expected decoded response, got %+v", resp)
	}
}

func TestService_PropagatesTransportErrorUnchanged(t *testing.T) {
	want := &authapi.TransportError{Method: "POST", Path: authapi.SignUpPath, StatusCode: 500}
	svc := authapi.NewService(&recordingTransport{err: want})

	_, err := svc.SignUp(context.Background(), authapi.SignUpRequest{})
	if err != want {
		t.Errorf("expected the same error value, got %v", err)
	}
}

func TestService_NoTransport(t *testing.T) {
	if _, err := authapi.NewService(nil).SignIn(context.Background(), authapi.SignInRequest{}); err == nil {
		t.Error("expected error without transport")
	}
}

func TestTransportError_Error(t *testing.T) {
	err := &authapi.TransportError{Method: "POST", Path: "/authentication/sign-in", StatusCode: 401, Message: "bad"}
	if got := err.Error(); got != "authapi: POST /authentication/sign-in: status 401: bad" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestErrorHelpers(t *testing.T) {
	rejected := &authapi.TransportError{Method: "POST", Path: authapi.SignInPath, StatusCode: 401, Message: "<b>Invalid</b>   credentials"}
	unavailable := &authapi.TransportError{Method: "POST", Path: authapi.SignInPath, Err: errors.New("connection refused")}
	wrapped := fmt.Errorf("sign-in: %w", rejected)

	tests := []struct {
		name     string
		err      error
		status   int
		rejected bool
		message  string
	}{
		{"rejected", rejected, 401, true, "Invalid credentials"},
		{"wrapped", wrapped, 401, true, "Invalid credentials"},
		{"unreachable", unavailable, 0, false, ""},
		{"server error", &authapi.TransportError{StatusCode: 502}, 502, false, ""},
		{"plain error", errors.New("boom"), 0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authapi.Status(tt.err); got != tt.status {
				t.Errorf("Status = %d, want %d", got, tt.status)
			}
			if got := authapi.Rejected(tt.err); got != tt.rejected {
				t.Errorf("Rejected = %v, want %v", got, tt.rejected)
			}
			if got := authapi.UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage = %q, want %q", got, tt.message)
			}
		})
	}
}
